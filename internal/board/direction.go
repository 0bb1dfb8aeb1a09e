package board

import "strings"

// Direction is a move direction.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four playable directions.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Valid reports whether d is one of the four playable directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection maps an input symbol to a direction.
// Accepts WASD, vim keys and arrow names in any case; anything else is DirNone.
func ParseDirection(symbol string) Direction {
	switch strings.ToLower(strings.TrimSpace(symbol)) {
	case "w", "k", "up", "arrowup":
		return DirUp
	case "s", "j", "down", "arrowdown":
		return DirDown
	case "a", "h", "left", "arrowleft":
		return DirLeft
	case "d", "l", "right", "arrowright":
		return DirRight
	default:
		return DirNone
	}
}
