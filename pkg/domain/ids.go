// Package domain holds the typed identifiers shared across the registry.
// Identifiers are assigned by the record store; zero means "not assigned yet".
package domain

import (
	"strconv"
	"strings"

	dErrors "projet/pkg/domain-errors"
)

// maxIDLength bounds the decimal form of an int64.
const maxIDLength = 19

type (
	RegionID int64
	CityID   int64
	PlayerID int64
)

func (id RegionID) IsNil() bool    { return id == 0 }
func (id RegionID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id CityID) IsNil() bool    { return id == 0 }
func (id CityID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id PlayerID) IsNil() bool    { return id == 0 }
func (id PlayerID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseRegionID parses a path or query identifier.
func ParseRegionID(s string) (RegionID, error) {
	v, err := parseID(s, "region")
	return RegionID(v), err
}

// ParseCityID parses a path or query identifier.
func ParseCityID(s string) (CityID, error) {
	v, err := parseID(s, "city")
	return CityID(v), err
}

// ParsePlayerID parses a path or query identifier.
func ParsePlayerID(s string) (PlayerID, error) {
	v, err := parseID(s, "player")
	return PlayerID(v), err
}

func parseID(s, kind string) (int64, error) {
	if s == "" || len(s) > maxIDLength {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	// ParseInt accepts a leading sign; identifiers never carry one.
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	return v, nil
}
