package roster

// Team is a project group as delivered by the team list endpoint.
// Member identity arrives as parallel delimited strings; use Derive to
// turn them into a validated []Member.
type Team struct {
	// ID is unique and stable for the session.
	ID int `json:"id"                   yaml:"id"`

	ProjectName string `json:"projectName"          yaml:"project_name"`
	Description string `json:"descriptionOfProject" yaml:"description"`
	FigmaLink   string `json:"figmaLink"            yaml:"figma_link"`
	GithubLink  string `json:"github_link"          yaml:"github_link"`

	// MemberIDs, MemberNames and MemberEmails are positionally correlated.
	MemberIDs    string `json:"user_ids"    yaml:"user_ids"`
	MemberNames  string `json:"user_names"  yaml:"user_names"`
	MemberEmails string `json:"user_emails" yaml:"user_emails"`

	ChallengeID int `json:"innovation_challenge_id" yaml:"challenge_id"`
}

// Member is a roster entry derived from a Team. It is never stored on its own.
type Member struct {
	ID          string
	DisplayName string
	Initials    string
	Email       string
}

// Profile is the lazily fetched detail record for a member.
type Profile struct {
	ID              string `json:"id"            yaml:"id"`
	FirstName       string `json:"first_name"    yaml:"first_name"`
	LastName        string `json:"last_name"     yaml:"last_name"`
	GraduationLabel string `json:"graduation"    yaml:"graduation"`
	GithubURL       string `json:"github_link"   yaml:"github_link"`
	LinkedInURL     string `json:"linkedin_link" yaml:"linkedin_link"`
}

// FullName joins first and last name, skipping empty parts.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
