package models

// WorkerStatus константы статусов исполнителя
const (
	WorkerStatusPending   = "pending"
	WorkerStatusApproved  = "approved"
	WorkerStatusRejected  = "rejected"
	WorkerStatusSuspended = "suspended"
)

// Availability константы режима занятости
const (
	AvailabilityFullTime = "full-time"
	AvailabilityPartTime = "part-time"
	AvailabilityOnDemand = "on-demand"
)

// Роли пользователей в access токене
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

// DefaultCountry подставляется, если страна в адресе не указана.
const DefaultCountry = "USA"

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// ValidWorkerStatuses список валидных статусов исполнителя
var ValidWorkerStatuses = map[string]struct{}{
	WorkerStatusPending:   {},
	WorkerStatusApproved:  {},
	WorkerStatusRejected:  {},
	WorkerStatusSuspended: {},
}

// ValidAvailabilities список валидных режимов занятости
var ValidAvailabilities = map[string]struct{}{
	AvailabilityFullTime: {},
	AvailabilityPartTime: {},
	AvailabilityOnDemand: {},
}
