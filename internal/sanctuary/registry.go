package sanctuary

import (
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

const (
	Animals              = "animals"
	BlogPosts            = "blog_posts"
	FAQs                 = "faqs"
	EducationalResources = "educational_resources"
	Donations            = "donations"
	Volunteers           = "volunteers"
	Events               = "events"
)

type definition struct {
	newValue   func() any
	schema     records.Schema
	searchable []string
}

var stamps = []string{"createdAt", "updatedAt"}

func dates(extra ...string) []string {
	return append(append([]string(nil), stamps...), extra...)
}

var registry = map[string]definition{
	Animals: {
		newValue:   func() any { return &Animal{} },
		schema:     records.Schema{DateFields: dates("dateOfBirth", "arrivalDate", "adoptionDate"), NestedDateFields: map[string][]string{"notes": {"createdAt"}}},
		searchable: []string{"name", "species", "breed", "description", "tags", "personality"},
	},
	BlogPosts: {
		newValue:   func() any { return &BlogPost{} },
		schema:     records.Schema{DateFields: dates("publishedAt")},
		searchable: []string{"title", "excerpt", "content", "author", "category", "tags"},
	},
	FAQs: {
		newValue:   func() any { return &FAQ{} },
		schema:     records.Schema{DateFields: dates()},
		searchable: []string{"question", "answer", "category"},
	},
	EducationalResources: {
		newValue:   func() any { return &EducationalResource{} },
		schema:     records.Schema{DateFields: dates("publishedAt")},
		searchable: []string{"title", "description", "category", "audience", "tags"},
	},
	Donations: {
		newValue:   func() any { return &Donation{} },
		schema:     records.Schema{DateFields: dates("date")},
		searchable: []string{"donorName", "email", "designation", "method"},
	},
	Volunteers: {
		newValue:   func() any { return &Volunteer{} },
		schema:     records.Schema{DateFields: dates("startDate", "lastActive")},
		searchable: []string{"name", "email", "skills", "availability"},
	},
	Events: {
		newValue:   func() any { return &Event{} },
		schema:     records.Schema{DateFields: dates("startDate", "endDate")},
		searchable: []string{"title", "description", "location"},
	},
}

// Resources lists the managed resource names in display order.
func Resources() []string {
	return []string{Animals, BlogPosts, FAQs, EducationalResources, Donations, Volunteers, Events}
}

func IsResource(name string) bool {
	_, ok := registry[name]
	return ok
}

// Schemas returns the date schema of every resource.
func Schemas() map[string]records.Schema {
	out := make(map[string]records.Schema, len(registry))
	for name, def := range registry {
		out[name] = def.schema
	}
	return out
}

// Searchable returns the default free-text fields of resource.
func Searchable(resource string) []string {
	return append([]string(nil), registry[resource].searchable...)
}

// StoreOptions configures a records.Store for the sanctuary resources.
func StoreOptions() []records.Option {
	return []records.Option{
		records.WithResources(Resources()...),
		records.WithSchemas(Schemas()),
	}
}
