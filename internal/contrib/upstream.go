package contrib

// Payload is the body of GET {base}/{user}.json?flat=true on the
// github-contributions-api service.
type Payload struct {
	TotalContributions int          `json:"totalContributions"`
	Contributions      []PayloadDay `json:"contributions"`
}

// PayloadDay is one upstream calendar cell.
type PayloadDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
	ContributionLevel string `json:"contributionLevel"`
}

var levels = map[string]int{
	"NONE":            0,
	"FIRST_QUARTILE":  1,
	"SECOND_QUARTILE": 2,
	"THIRD_QUARTILE":  3,
	"FOURTH_QUARTILE": 4,
}

// Level maps the upstream level vocabulary to the 0-4 ordinal.
// Unknown values map to 0.
func Level(name string) int {
	return levels[name]
}
