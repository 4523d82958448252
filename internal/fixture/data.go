// Package fixture serves a local stand-in for the recruiting backend, for
// demos and transport tests.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/rosterview/internal/roster"
)

// Account is a recruiter login accepted by the fixture server.
type Account struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Data is everything the fixture server serves.
type Data struct {
	Teams    []roster.Team    `yaml:"teams"`
	Profiles []roster.Profile `yaml:"profiles"`
	Accounts []Account        `yaml:"accounts"`
	// FailingProfiles lists member ids whose profile requests return 500.
	FailingProfiles []string `yaml:"failing_profiles"`
}

// LoadData reads fixture data from a YAML file.
func LoadData(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture data: %w", err)
	}
	var d Data
	if err = yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing fixture data %s: %w", path, err)
	}
	return &d, nil
}

// SampleData returns a small built-in data set. Team 3 has mismatched member
// fields and u5's profile always fails, so every browser state can be shown.
func SampleData() *Data {
	return &Data{
		Teams: []roster.Team{
			{
				ID:           1,
				ProjectName:  "Campus Compost",
				Description:  "Routing food waste from dining halls to local farms.",
				FigmaLink:    "https://figma.com/file/compost",
				GithubLink:   "https://github.com/example/compost",
				MemberIDs:    "u1;u2",
				MemberNames:  "Ann Lee,Bo Chu",
				MemberEmails: "ann@example.com,bo@example.com",
				ChallengeID:  1,
			},
			{
				ID:           2,
				ProjectName:  "Transit Pulse",
				Description:  "Live crowding estimates for city buses.",
				GithubLink:   "https://github.com/example/pulse",
				MemberIDs:    "u3,u4,u5",
				MemberNames:  "Cy Diaz,Dee Evans,Eli Fox",
				MemberEmails: "cy@example.com,dee@example.com,eli@example.com",
				ChallengeID:  1,
			},
			{
				ID:          3,
				ProjectName: "Half Finished",
				Description: "A team whose member fields disagree.",
				MemberIDs:   "u6,u7",
				MemberNames: "Gus Hill",
				ChallengeID: 2,
			},
		},
		Profiles: []roster.Profile{
			{ID: "u1", FirstName: "Ann", LastName: "Lee", GraduationLabel: "2025", GithubURL: "https://github.com/annlee", LinkedInURL: "https://linkedin.com/in/annlee"},
			{ID: "u2", FirstName: "Bo", LastName: "Chu", GraduationLabel: "2026", GithubURL: "https://github.com/bochu"},
			{ID: "u3", FirstName: "Cy", LastName: "Diaz", GraduationLabel: "2024", LinkedInURL: "https://linkedin.com/in/cydiaz"},
			{ID: "u4", FirstName: "Dee", LastName: "Evans", GraduationLabel: "2025"},
		},
		Accounts:        []Account{{Email: "recruiter@example.com", Password: "password"}},
		FailingProfiles: []string{"u5"},
	}
}
