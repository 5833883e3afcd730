package repository

// Subset of the Launch Library 2 "detailed" launch schema that the notifier reads.

type upcomingResponse struct {
	Count   int          `json:"count"`
	Results *[]apiLaunch `json:"results"`
}

type apiLaunch struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Net     string      `json:"net"` // RFC 3339, No Earlier Than
	Pad     *apiPad     `json:"pad"`
	Mission *apiMission `json:"mission"`
	Rocket  *apiRocket  `json:"rocket"`
}

type apiPad struct {
	Name     string       `json:"name"`
	Location *apiLocation `json:"location"`
}

type apiLocation struct {
	Name string `json:"name"`
}

type apiMission struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type apiRocket struct {
	Configuration *struct {
		Name string `json:"name"`
	} `json:"configuration"`
}

func (p *apiPad) names() (pad, location string) {
	if p == nil {
		return "", ""
	}
	pad = p.Name
	if p.Location != nil {
		location = p.Location.Name
	}
	return pad, location
}

// payloadSummary prefers the mission name and falls back to the rocket configuration.
func (l apiLaunch) payloadSummary() string {
	if l.Mission != nil && l.Mission.Name != "" {
		return l.Mission.Name
	}
	if l.Rocket != nil && l.Rocket.Configuration != nil {
		return l.Rocket.Configuration.Name
	}
	return ""
}
