package terminal

import (
	"fmt"
	"strings"

	"github.com/ashureev/folio/internal/domain"
)

const (
	summaryLength = 100
	maxTechTags   = 4
)

// NewPortfolioResolver builds the built-in command registry for profile and
// returns a resolver over it.
func NewPortfolioResolver(profile domain.Profile) *Resolver {
	return NewResolver(BuiltinCommands(profile), func() Output { return allProjects(profile) })
}

// BuiltinCommands returns the portfolio commands in help order.
func BuiltinCommands(profile domain.Profile) *Registry {
	var reg *Registry
	reg = MustRegistry(
		Command{Name: "help", Description: "List all available commands", Handler: func() Output { return help(reg) }},
		Command{Name: "about", Description: "Display bio and contact info", Handler: func() Output { return about(profile) }},
		Command{Name: "skills", Description: "List technical skills", Handler: func() Output { return skills(profile) }},
		Command{Name: "projects", Description: "Show project summaries", Handler: func() Output { return featuredProjects(profile) }},
		Command{Name: "contact", Description: "Show contact methods", Handler: func() Output { return contact(profile) }},
		Command{Name: "resume", Description: "Download resume", Handler: func() Output { return resume(profile) }},
		Command{Name: "social", Description: "Display social links", Handler: func() Output { return social(profile) }},
		Command{Name: ClearCommand, Description: "Clear terminal output"},
		Command{Name: "experience", Description: "Display work history", Handler: func() Output { return experience(profile) }},
	)
	return reg
}

func help(reg *Registry) Output {
	out := Output{Blocks: []Block{heading("Available Commands:")}}
	for _, cmd := range reg.Commands() {
		out.Blocks = append(out.Blocks, field(cmd.Name, cmd.Description))
	}
	out.Blocks = append(out.Blocks, hint("Tip: Use ↑/↓ arrows to navigate command history"))
	return out
}

func about(p domain.Profile) Output {
	return Output{Blocks: []Block{{
		Kind:  BlockCard,
		Label: p.Name,
		Text:  p.ShortBio,
		Blocks: []Block{
			text(strings.TrimSpace(p.Headline + " Developer")),
			field("Location", p.Location),
			link(p.Email, "mailto:"+p.Email),
			field("Phone", p.Phone),
		},
	}}}
}

func skills(p domain.Profile) Output {
	return Output{Blocks: []Block{
		heading("Technical Skills:"),
		tags("Frontend", p.Skills.Frontend),
		tags("Backend", p.Skills.Backend),
		tags("Tools", p.Skills.Tools),
	}}
}

func featuredProjects(p domain.Profile) Output {
	out := Output{Blocks: []Block{heading("Featured Projects:")}}
	for _, project := range p.Projects {
		if !project.Featured {
			continue
		}
		card := Block{
			Kind:  BlockCard,
			Label: project.Title,
			Text:  truncate(project.Summary(), summaryLength) + "...",
			Tags:  firstN(project.Tech, maxTechTags),
		}
		if project.Published {
			card.Badges = []string{"IEEE Published"}
		}
		if project.LiveLink != "" {
			card.Blocks = []Block{link("View Live →", project.LiveLink)}
		}
		out.Blocks = append(out.Blocks, card)
	}
	out.Blocks = append(out.Blocks, hint(fmt.Sprintf("Type 'projects --all' to see all %d projects", len(p.Projects))))
	return out
}

func allProjects(p domain.Profile) Output {
	out := Output{Blocks: []Block{heading("All Projects:")}}
	for _, project := range p.Projects {
		card := Block{
			Kind:  BlockCard,
			Label: project.Title,
			Tags:  firstN(project.Tech, maxTechTags),
		}
		if project.Featured {
			card.Badges = []string{"Featured"}
		}
		out.Blocks = append(out.Blocks, card)
	}
	return out
}

func contact(p domain.Profile) Output {
	return Output{Blocks: []Block{
		heading("Contact Information:"),
		{Kind: BlockLink, Label: "Email", Text: p.Email, URL: "mailto:" + p.Email},
		field("Phone", p.Phone),
		field("Location", p.Location),
		hint("Type 'social' to see social media links"),
	}}
}

func resume(p domain.Profile) Output {
	return Output{
		Blocks: []Block{
			text("✓ Resume download initiated!"),
			{Kind: BlockLink, Label: "click here", Text: "If the download doesn't start automatically,", URL: p.Resume.URL},
		},
		Action: &Action{Kind: ActionDownload, URL: p.Resume.URL, Filename: p.Resume.Filename},
	}
}

func social(p domain.Profile) Output {
	return Output{Blocks: []Block{
		heading("Social Links:"),
		{Kind: BlockLink, Label: "GitHub", Text: strings.TrimPrefix(p.Socials.GitHub, "https://github.com/"), URL: p.Socials.GitHub},
		{Kind: BlockLink, Label: "LinkedIn", Text: strings.TrimPrefix(p.Socials.LinkedIn, "https://www.linkedin.com/in/"), URL: p.Socials.LinkedIn},
	}}
}

func experience(p domain.Profile) Output {
	out := Output{Blocks: []Block{heading("Work Experience:")}}
	for _, exp := range p.Experience {
		out.Blocks = append(out.Blocks, Block{
			Kind:   BlockCard,
			Label:  exp.Role,
			Text:   exp.Company,
			Badges: []string{exp.Duration},
			Tags:   append([]string(nil), exp.Tech...),
		})
	}
	return out
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	return append([]string(nil), values...)
}
