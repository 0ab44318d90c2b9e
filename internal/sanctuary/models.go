// Package sanctuary defines the concrete resources managed by the admin
// back-office and their storage schemas.
package sanctuary

import (
	"time"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

// Meta is owned by the record store.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Location struct {
	Barn    string `json:"barn,omitempty"`
	Pasture string `json:"pasture,omitempty"`
}

type Note struct {
	Text      string    `json:"text" binding:"required"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Animal struct {
	Meta
	Name         string     `json:"name" binding:"required,max=100"`
	Species      string     `json:"species" binding:"required"`
	Breed        string     `json:"breed,omitempty"`
	Sex          string     `json:"sex,omitempty" binding:"omitempty,oneof=male female unknown"`
	Status       string     `json:"status,omitempty" binding:"omitempty,oneof=resident available adopted sponsored memorial"`
	Description  string     `json:"description,omitempty"`
	Personality  []string   `json:"personality,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Images       []string   `json:"images,omitempty" binding:"omitempty,dive,url"`
	Weight       float64    `json:"weight,omitempty" binding:"gte=0"`
	Sponsorable  bool       `json:"sponsorable"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	ArrivalDate  *time.Time `json:"arrivalDate,omitempty"`
	AdoptionDate *time.Time `json:"adoptionDate,omitempty"`
	Location     *Location  `json:"location,omitempty"`
	Notes        []Note     `json:"notes,omitempty" binding:"omitempty,dive"`
}

type BlogPost struct {
	Meta
	Title         string     `json:"title" binding:"required,max=200"`
	Slug          string     `json:"slug" binding:"required"`
	Excerpt       string     `json:"excerpt,omitempty" binding:"max=500"`
	Content       string     `json:"content" binding:"required"`
	Author        string     `json:"author" binding:"required"`
	Category      string     `json:"category,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Status        string     `json:"status" binding:"required,oneof=draft published archived"`
	FeaturedImage string     `json:"featuredImage,omitempty" binding:"omitempty,url"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

type FAQ struct {
	Meta
	Question  string `json:"question" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
	Category  string `json:"category,omitempty"`
	Order     int    `json:"order" binding:"gte=0"`
	Published bool   `json:"published"`
}

type EducationalResource struct {
	Meta
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type" binding:"required,oneof=guide article video worksheet infographic"`
	Category    string     `json:"category,omitempty"`
	URL         string     `json:"url,omitempty" binding:"omitempty,url"`
	Audience    string     `json:"audience,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type Donation struct {
	Meta
	DonorName   string     `json:"donorName" binding:"required"`
	Email       string     `json:"email,omitempty" binding:"omitempty,email"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Currency    string     `json:"currency,omitempty" binding:"omitempty,len=3"`
	Method      string     `json:"method,omitempty" binding:"omitempty,oneof=card paypal check cash bank"`
	Recurring   bool       `json:"recurring"`
	Anonymous   bool       `json:"anonymous"`
	Designation string     `json:"designation,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

type Volunteer struct {
	Meta
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email" binding:"required,email"`
	Phone        string     `json:"phone,omitempty"`
	Skills       []string   `json:"skills,omitempty"`
	Availability []string   `json:"availability,omitempty"`
	Status       string     `json:"status,omitempty" binding:"omitempty,oneof=applicant active inactive"`
	Hours        float64    `json:"hours,omitempty" binding:"gte=0"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	LastActive   *time.Time `json:"lastActive,omitempty"`
}

type Event struct {
	Meta
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartDate   *time.Time `json:"startDate" binding:"required"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Capacity    int        `json:"capacity,omitempty" binding:"gte=0"`
	Registered  int        `json:"registered,omitempty" binding:"gte=0"`
	Status      string     `json:"status,omitempty" binding:"omitempty,oneof=scheduled cancelled completed"`
}

func (a Animal) Field(path string) (any, bool)              { return records.FieldOf(a, path) }
func (p BlogPost) Field(path string) (any, bool)            { return records.FieldOf(p, path) }
func (f FAQ) Field(path string) (any, bool)                 { return records.FieldOf(f, path) }
func (r EducationalResource) Field(path string) (any, bool) { return records.FieldOf(r, path) }
func (d Donation) Field(path string) (any, bool)            { return records.FieldOf(d, path) }
func (v Volunteer) Field(path string) (any, bool)           { return records.FieldOf(v, path) }
func (e Event) Field(path string) (any, bool)               { return records.FieldOf(e, path) }
