package config

import "time"

// GitHubConfig contains repository-host configuration: the REST API base and
// the two teams whose membership drives role resolution.
type GitHubConfig struct {
	// BaseURL is the REST API base. Override for GitHub Enterprise.
	BaseURL string `env:"API_BASE_URL" envDefault:"https://api.github.com/"`

	// VolunteerTeamID is the team whose members get the volunteer role.
	VolunteerTeamID string `env:"VOLUNTEER_TEAM_ID,required"`

	// InstructorTeamID is the team whose members get the instructor role.
	// Instructor membership takes precedence over volunteer membership.
	InstructorTeamID string `env:"INSTRUCTOR_TEAM_ID,required"`

	// Orgs are the organizations searched for open pull requests.
	Orgs []string `env:"ORGS" envDefault:"Ada-C4;Ada-C5" envSeparator:";"`

	// RequestTimeout bounds individual API requests.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to repository-host configuration values.
func (g *GitHubConfig) Sanitize() {
	if g.RequestTimeout <= 0 {
		g.RequestTimeout = 30 * time.Second
	}
}
