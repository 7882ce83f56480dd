package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Address хранит адрес исполнителя. City и State обязательны.
type Address struct {
	Street  *string `db:"street" json:"street,omitempty"`
	City    string  `db:"city" json:"city"`
	State   string  `db:"state" json:"state"`
	ZipCode *string `db:"zip_code" json:"zipCode,omitempty"`
	Country string  `db:"country" json:"country"`
}

// CategorySummary: краткая информация о категории для выдачи вместе с исполнителем.
type CategorySummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// Worker описывает зарегистрированного исполнителя услуг.
type Worker struct {
	ID                uuid.UUID        `db:"id" json:"id"`
	FirstName         string           `db:"first_name" json:"firstName"`
	LastName          string           `db:"last_name" json:"lastName"`
	Email             string           `db:"email" json:"email"`
	PhoneNumber       string           `db:"phone_number" json:"phoneNumber"`
	Address           Address          `db:"address" json:"address"`
	CategoryID        uuid.UUID        `db:"category_id" json:"categoryId"`
	Category          *CategorySummary `db:"-" json:"category,omitempty"`
	Skills            pq.StringArray   `db:"skills" json:"skills"`
	Experience        float64          `db:"experience" json:"experience"`
	HourlyRate        float64          `db:"hourly_rate" json:"hourlyRate"`
	Availability      string           `db:"availability" json:"availability"`
	Rating            float64          `db:"rating" json:"rating"`
	TotalJobs         int              `db:"total_jobs" json:"totalJobs"`
	CompletedJobs     int              `db:"completed_jobs" json:"completedJobs"`
	ProfileImage      *string          `db:"profile_image" json:"profileImage"`
	IsVerified        bool             `db:"is_verified" json:"isVerified"`
	IsActive          bool             `db:"is_active" json:"isActive"`
	Status            string           `db:"status" json:"status"`
	VerificationNotes *string          `db:"verification_notes" json:"verificationNotes,omitempty"`
	UserID            *uuid.UUID       `db:"user_id" json:"userId,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updatedAt"`
}

// FullName возвращает имя и фамилию через пробел.
func (w Worker) FullName() string {
	return w.FirstName + " " + w.LastName
}

// MarshalJSON добавляет виртуальное поле fullName.
func (w Worker) MarshalJSON() ([]byte, error) {
	type plain Worker
	return json.Marshal(struct {
		plain
		FullName string `json:"fullName"`
	}{
		plain:    plain(w),
		FullName: w.FullName(),
	})
}
