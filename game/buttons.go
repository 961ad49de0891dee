package game

// Predeclared keyboard buttons. Labels must resolve to events through the
// vocabulary in events.go.
type gameButtons struct {
	Start    Button
	Rules    Button
	Register Button
	Pass     Button
	AllIn    Button
	Hit      Button
	Stand    Button
	Abort    Button
	Stop     Button
	Stats    Button
}

var GameButton = gameButtons{
	Start:    Button{Action: Action{Label: "start", Type: "text"}, Color: "primary"},
	Rules:    Button{Action: Action{Label: "rules", Type: "text"}, Color: "secondary"},
	Register: Button{Action: Action{Label: "join", Type: "text"}, Color: "primary"},
	Pass:     Button{Action: Action{Label: "pass", Type: "text"}, Color: "secondary"},
	AllIn:    Button{Action: Action{Label: "all in", Type: "text"}, Color: "primary"},
	Hit:      Button{Action: Action{Label: "hit", Type: "text"}, Color: "primary"},
	Stand:    Button{Action: Action{Label: "stand", Type: "text"}, Color: "secondary"},
	Abort:    Button{Action: Action{Label: "abort", Type: "text"}, Color: "negative"},
	Stop:     Button{Action: Action{Label: "stop this", Type: "text"}, Color: "negative"},
	Stats:    Button{Action: Action{Label: "stats", Type: "text"}, Color: "secondary"},
}
