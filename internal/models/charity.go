package models

// DefaultCharityID is the sitewide fallback applied when a workout event
// carries no charity tag. Every extraction path uses this one constant.
const DefaultCharityID = "als-foundation"

var charityNames = map[string]string{
	"als-foundation":  "ALS Foundation",
	"wounded-warrior": "Wounded Warrior Project",
	"st-jude":         "St. Jude Children's Research Hospital",
	"charity-water":   "charity: water",
	"team-rubicon":    "Team Rubicon",
}

// CharityName returns the display name for a charity id, falling back to the
// id itself for charities the registry does not know about.
func CharityName(id string) string {
	if name, ok := charityNames[id]; ok {
		return name
	}
	return id
}
