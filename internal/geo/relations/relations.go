// Package relations keeps the Region/City and City/Player links coherent on
// both sides. Children own the link through their FK and remember the loaded
// parent listing them; parents hold the loaded child slice. Nothing here
// touches storage.
package relations

import (
	"slices"

	"projet/internal/geo/models"
	id "projet/pkg/domain"
)

// SetCities replaces the region's child set. Cities dropped from the set are
// detached; every city in the new set points at the region.
func SetCities(region *models.Region, cities []*models.City) {
	if region == nil {
		return
	}
	for _, c := range region.Cities {
		if slices.ContainsFunc(cities, c.Equal) {
			continue
		}
		if regionOwns(region, c) {
			c.RegionID = nil
		}
		if c.LoadedOwner() == region {
			c.SetLoadedOwner(nil)
		}
	}
	region.Cities = nil
	for _, c := range cities {
		AddCity(region, c)
	}
}

// AddCity links city under region, leaving the child set of any other loaded
// region that listed it. Adding a city already in the set only refreshes its FK.
func AddCity(region *models.Region, city *models.City) {
	if region == nil || city == nil {
		return
	}
	if prev := city.LoadedOwner(); prev != nil && prev != region {
		prev.Cities = slices.DeleteFunc(prev.Cities, city.Equal)
	}
	if !slices.ContainsFunc(region.Cities, city.Equal) {
		region.Cities = append(region.Cities, city)
	}
	city.RegionID = regionRef(region)
	city.SetLoadedOwner(region)
}

// RemoveCity unlinks city from region. Absent cities are ignored.
func RemoveCity(region *models.Region, city *models.City) {
	if region == nil || city == nil {
		return
	}
	region.Cities = slices.DeleteFunc(region.Cities, city.Equal)
	if regionOwns(region, city) {
		city.RegionID = nil
	}
	if city.LoadedOwner() == region {
		city.SetLoadedOwner(nil)
	}
}

// SetRegion moves city from one region to another. from and to may be nil
// when the object is not loaded; the FK is rewritten either way.
func SetRegion(city *models.City, from, to *models.Region) {
	if city == nil {
		return
	}
	if from != nil && !from.Equal(to) {
		from.Cities = slices.DeleteFunc(from.Cities, city.Equal)
	}
	if to == nil {
		if prev := city.LoadedOwner(); prev != nil {
			prev.Cities = slices.DeleteFunc(prev.Cities, city.Equal)
		}
		city.RegionID = nil
		city.SetLoadedOwner(nil)
		return
	}
	AddCity(to, city)
}

// SetPlayers replaces the city's child set. Players dropped from the set are
// detached; every player in the new set points at the city.
func SetPlayers(city *models.City, players []*models.Player) {
	if city == nil {
		return
	}
	for _, p := range city.Players {
		if slices.ContainsFunc(players, p.Equal) {
			continue
		}
		if cityOwns(city, p) {
			p.CityID = nil
		}
		if p.LoadedOwner() == city {
			p.SetLoadedOwner(nil)
		}
	}
	city.Players = nil
	for _, p := range players {
		AddPlayer(city, p)
	}
}

// AddPlayer links player under city, leaving the child set of any other
// loaded city that listed it.
func AddPlayer(city *models.City, player *models.Player) {
	if city == nil || player == nil {
		return
	}
	if prev := player.LoadedOwner(); prev != nil && prev != city {
		prev.Players = slices.DeleteFunc(prev.Players, player.Equal)
	}
	if !slices.ContainsFunc(city.Players, player.Equal) {
		city.Players = append(city.Players, player)
	}
	player.CityID = cityRef(city)
	player.SetLoadedOwner(city)
}

// RemovePlayer unlinks player from city. Absent players are ignored.
func RemovePlayer(city *models.City, player *models.Player) {
	if city == nil || player == nil {
		return
	}
	city.Players = slices.DeleteFunc(city.Players, player.Equal)
	if cityOwns(city, player) {
		player.CityID = nil
	}
	if player.LoadedOwner() == city {
		player.SetLoadedOwner(nil)
	}
}

// SetCity moves player from one city to another. from and to may be nil when
// the object is not loaded; the FK is rewritten either way.
func SetCity(player *models.Player, from, to *models.City) {
	if player == nil {
		return
	}
	if from != nil && !from.Equal(to) {
		from.Players = slices.DeleteFunc(from.Players, player.Equal)
	}
	if to == nil {
		if prev := player.LoadedOwner(); prev != nil {
			prev.Players = slices.DeleteFunc(prev.Players, player.Equal)
		}
		player.CityID = nil
		player.SetLoadedOwner(nil)
		return
	}
	AddPlayer(to, player)
}

// regionRef returns the FK value for region. An unsaved region hands out its
// own id slot so the FK resolves once the store assigns the id.
func regionRef(region *models.Region) *id.RegionID {
	if region.ID.IsNil() {
		return &region.ID
	}
	v := region.ID
	return &v
}

func regionOwns(region *models.Region, city *models.City) bool {
	if city.RegionID == nil {
		return false
	}
	if city.RegionID == &region.ID {
		return true
	}
	return !region.ID.IsNil() && *city.RegionID == region.ID
}

func cityRef(city *models.City) *id.CityID {
	if city.ID.IsNil() {
		return &city.ID
	}
	v := city.ID
	return &v
}

func cityOwns(city *models.City, player *models.Player) bool {
	if player.CityID == nil {
		return false
	}
	if player.CityID == &city.ID {
		return true
	}
	return !city.ID.IsNil() && *player.CityID == city.ID
}
