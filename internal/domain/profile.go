package domain

// Profile is the portfolio content the terminal commands render.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Headline string `yaml:"headline" json:"headline"`
	ShortBio string `yaml:"short_bio" json:"short_bio"`
	Location string `yaml:"location" json:"location"`
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone"`

	// GitHubUsername is the default subject for contribution stats.
	GitHubUsername string `yaml:"github_username" json:"github_username"`

	Resume     ResumeLink   `yaml:"resume" json:"resume"`
	Socials    Socials      `yaml:"socials" json:"socials"`
	Skills     Skills       `yaml:"skills" json:"skills"`
	Projects   []Project    `yaml:"projects" json:"projects"`
	Experience []Experience `yaml:"experience" json:"experience"`
}

// ResumeLink points at the downloadable resume.
type ResumeLink struct {
	URL      string `yaml:"url" json:"url"`
	Filename string `yaml:"filename" json:"filename"`
}

// Socials holds public profile links.
type Socials struct {
	GitHub   string `yaml:"github" json:"github"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
}

// Skills groups technologies by area.
type Skills struct {
	Frontend []string `yaml:"frontend" json:"frontend"`
	Backend  []string `yaml:"backend" json:"backend"`
	Tools    []string `yaml:"tools" json:"tools"`
}

// Project is one portfolio project.
type Project struct {
	Title       string   `yaml:"title" json:"title"`
	Description []string `yaml:"description" json:"description"`
	Tech        []string `yaml:"tech" json:"tech"`
	Featured    bool     `yaml:"featured" json:"featured"`
	Published   bool     `yaml:"published" json:"published"`
	LiveLink    string   `yaml:"live_link" json:"live_link,omitempty"`
}

// Summary returns the first description paragraph, or "".
func (p Project) Summary() string {
	if len(p.Description) == 0 {
		return ""
	}
	return p.Description[0]
}

// Experience is one work history entry.
type Experience struct {
	Role     string   `yaml:"role" json:"role"`
	Company  string   `yaml:"company" json:"company"`
	Duration string   `yaml:"duration" json:"duration"`
	Tech     []string `yaml:"tech" json:"tech"`
}
