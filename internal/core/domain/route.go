package domain

import (
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// TravelMode selects how a route is travelled.
type TravelMode string

const (
	// ModeWalk routes on foot only.
	ModeWalk TravelMode = "walk"
	// ModeTransit routes over public transit with walking transfers.
	ModeTransit TravelMode = "transit"
)

// ParseTravelMode parses a travel mode name. An empty name selects transit.
func ParseTravelMode(s string) (TravelMode, error) {
	switch TravelMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeWalk:
		return ModeWalk, nil
	case ModeTransit, "":
		return ModeTransit, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrInvalidTravelMode, "unsupported travel mode "+strconv.Quote(s)), "mode", s)
	}
}

// Profile returns the routing profile for the mode.
// Walking uses the given walk profile, falling back to DefaultProfile.
func (m TravelMode) Profile(walkProfile string) string {
	if m == ModeTransit {
		return TransitProfile
	}
	if walkProfile == "" {
		return DefaultProfile
	}
	return walkProfile
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParseCoordinate parses a "lat,lon" pair.
func ParseCoordinate(s string) (Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, invalidCoordinate(s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Coordinate{}, invalidCoordinate(s)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return Coordinate{}, invalidCoordinate(s)
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// RouteQuery is a routing request.
type RouteQuery struct {
	From      Coordinate `json:"from"`
	To        Coordinate `json:"to"`
	Departure time.Time  `json:"departure"`
	Mode      TravelMode `json:"mode"`
	Profile   string     `json:"profile"`
}

// Instruction is a single turn-by-turn step.
type Instruction struct {
	Text            string  `json:"text"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds int64   `json:"durationSeconds"`
}

// Leg is a contiguous part of an itinerary travelled in one mode.
type Leg struct {
	Mode            TravelMode    `json:"mode"`
	Instructions    []Instruction `json:"instructions"`
	DistanceMeters  float64       `json:"distanceMeters"`
	DurationSeconds int64         `json:"durationSeconds"`
}

// Itinerary is the best route found for a query.
type Itinerary struct {
	Legs            []Leg        `json:"legs"`
	StartTime       time.Time    `json:"startTime,omitzero"`
	EndTime         time.Time    `json:"endTime,omitzero"`
	DistanceMeters  float64      `json:"distanceMeters"`
	DurationSeconds int64        `json:"durationSeconds"`
	Coordinates     []Coordinate `json:"coordinates,omitempty"`
}

func invalidCoordinate(s string) error {
	return zerr.With(zerr.Wrap(ErrInvalidCoordinate, "failed to parse coordinate "+strconv.Quote(s)), "value", s)
}
