package domain

// LinkStyle controls how a link type is laid out and drawn
type LinkStyle struct {
	Distance float64 `json:"distance"`
	Color    string  `json:"color"`
	Strength float64 `json:"strength"`
}

var linkStyles = map[string]LinkStyle{
	"loopback":                      {Distance: 200, Color: "#00ff0011", Strength: 2},
	LinkTypeUnknown:                 {Distance: 200, Color: "#ffff00aa", Strength: 2},
	"loopback_transport_route":      {Distance: 400, Color: "#ff00ffaa", Strength: .5},
	"socket_server_transport_route": {Distance: 400, Color: "#ffaa00aa", Strength: .5},
	"socket_client_transport_route": {Distance: 400, Color: "#ffaa00aa", Strength: .5},
}

// StyleFor returns the style for a link type, falling back to the unknown style
func StyleFor(linkType string) LinkStyle {
	if style, ok := linkStyles[linkType]; ok {
		return style
	}
	return linkStyles[LinkTypeUnknown]
}
