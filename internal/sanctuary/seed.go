package sanctuary

import (
	"context"
	"fmt"
	"time"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func demoData() map[string][]any {
	return map[string][]any{
		Animals: {
			Animal{Name: "Bella", Species: "cow", Breed: "Jersey", Sex: "female", Status: "resident",
				Description: "Gentle matriarch of the north pasture.", Personality: []string{"gentle", "curious"},
				Tags: []string{"senior", "rescue"}, Weight: 540, Sponsorable: true,
				ArrivalDate: day(2019, time.May, 12), Location: &Location{Barn: "North"},
				Notes: []Note{{Text: "Annual hoof trim done", Author: "Sam", CreatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)}}},
			Animal{Name: "Wilbur", Species: "pig", Breed: "Kunekune", Sex: "male", Status: "available",
				Description: "Loves belly rubs and mud.", Personality: []string{"playful"}, Tags: []string{"young"},
				Weight: 95, Sponsorable: true, DateOfBirth: day(2022, time.April, 1), ArrivalDate: day(2022, time.August, 20),
				Location: &Location{Barn: "South"}},
			Animal{Name: "Daisy", Species: "goat", Breed: "Nigerian Dwarf", Sex: "female", Status: "sponsored",
				Description: "Escape artist.", Tags: []string{"rescue"}, Weight: 32,
				ArrivalDate: day(2021, time.January, 9), Location: &Location{Pasture: "East"}},
			Animal{Name: "Clucky", Species: "chicken", Sex: "female", Status: "resident",
				Description: "Rescued from a battery farm.", Weight: 2.1, ArrivalDate: day(2023, time.June, 3)},
		},
		BlogPosts: {
			BlogPost{Title: "Welcome to Harmony Farm", Slug: "welcome", Excerpt: "Who we are.",
				Content: "Harmony Farm is a sanctuary for farmed animals.", Author: "Alex", Category: "news",
				Tags: []string{"sanctuary"}, Status: "published", PublishedAt: day(2024, time.January, 15)},
			BlogPost{Title: "Caring for senior cows", Slug: "senior-cows", Content: "Older cows need soft bedding.",
				Author: "Sam", Category: "care", Tags: []string{"cows", "care"}, Status: "draft"},
		},
		FAQs: {
			FAQ{Question: "Can I visit the sanctuary?", Answer: "Yes, on open days.", Category: "visiting", Order: 1, Published: true},
			FAQ{Question: "How can I sponsor an animal?", Answer: "Choose an animal on the sponsor page.", Category: "support", Order: 2, Published: true},
			FAQ{Question: "Do you accept volunteers under 18?", Answer: "With a guardian present.", Category: "volunteering", Order: 3},
		},
		EducationalResources: {
			EducationalResource{Title: "Pig enrichment guide", Type: "guide", Category: "care", Audience: "adopters",
				Description: "Toys and activities for pigs.", Tags: []string{"pigs"}, PublishedAt: day(2023, time.October, 2)},
			EducationalResource{Title: "Life on a sanctuary", Type: "video", Category: "education", Audience: "schools",
				URL: "https://example.org/videos/life-on-a-sanctuary"},
		},
		Donations: {
			Donation{DonorName: "Jordan Lee", Email: "jordan@example.org", Amount: 50, Currency: "USD", Method: "card",
				Recurring: true, Designation: "general", Date: day(2024, time.February, 1)},
			Donation{DonorName: "Anonymous", Amount: 20, Currency: "USD", Method: "cash", Anonymous: true,
				Date: day(2024, time.February, 14)},
			Donation{DonorName: "Priya Shah", Email: "priya@example.org", Amount: 250, Currency: "USD", Method: "paypal",
				Designation: "Bella's care", Date: day(2024, time.March, 8)},
		},
		Volunteers: {
			Volunteer{Name: "Sam Rivera", Email: "sam@example.org", Skills: []string{"animal care", "fencing"},
				Availability: []string{"saturday", "sunday"}, Status: "active", Hours: 120,
				StartDate: day(2022, time.March, 1), LastActive: day(2024, time.March, 9)},
			Volunteer{Name: "Casey Morgan", Email: "casey@example.org", Skills: []string{"photography"},
				Availability: []string{"weekdays"}, Status: "applicant"},
		},
		Events: {
			Event{Title: "Spring open day", Description: "Meet the residents.", Location: "Main barn",
				StartDate: day(2024, time.April, 20), EndDate: day(2024, time.April, 20), Capacity: 80, Status: "scheduled"},
			Event{Title: "Volunteer orientation", Location: "Visitor centre", StartDate: day(2024, time.May, 4),
				Capacity: 15, Registered: 6, Status: "scheduled"},
		},
	}
}

// Seed loads the demo dataset into every resource that is still empty and
// returns how many records it created per resource.
func Seed(ctx context.Context, store *records.Store) (map[string]int, error) {
	created := map[string]int{}
	data := demoData()
	for _, name := range Resources() {
		if len(store.GetAll(ctx, name)) > 0 {
			continue
		}
		items := data[name]
		// Create prepends, so insert oldest last to keep the listed order.
		for i := len(items) - 1; i >= 0; i-- {
			rec, err := records.ToRecord(items[i])
			if err != nil {
				return created, fmt.Errorf("seed %s: %w", name, err)
			}
			delete(rec, "id")
			if _, err := store.Create(ctx, name, rec); err != nil {
				return created, fmt.Errorf("seed %s: %w", name, err)
			}
			created[name]++
		}
	}
	return created, nil
}
