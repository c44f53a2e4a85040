// Package position provides position sources for the solartime core:
// fixed coordinates, geocoded addresses, and a resilience wrapper for
// dynamic lookups such as GPS receivers.
package position

import (
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/solartz/solartz/internal/solartime"
)

// Fixed builds a static position source from explicit values. An instance
// bound to it performs one update and locks itself.
func Fixed(region, name string, latitude, longitude, altitude float64) (solartime.PositionSource, error) {
	coords := solartime.Coordinates{Latitude: latitude, Longitude: longitude, Altitude: altitude}
	if err := coords.Validate(); err != nil {
		return solartime.PositionSource{}, err
	}
	loc := solartime.Location{Region: region, Name: name}
	return solartime.Static(loc, coords), nil
}

// Stationary builds a dynamic source that always reports the same place.
// Unlike Fixed it keeps the instance live: the solar offset drifts from day
// to day even when the observer does not move.
func Stationary(region, name string, latitude, longitude, altitude float64) (solartime.PositionSource, error) {
	coords := solartime.Coordinates{Latitude: latitude, Longitude: longitude, Altitude: altitude}
	if err := coords.Validate(); err != nil {
		return solartime.PositionSource{}, err
	}
	pos := solartime.Position{
		Location:    solartime.Location{Region: region, Name: name},
		Coordinates: coords,
	}
	return solartime.Dynamic(func() (solartime.Position, error) {
		return pos, nil
	}), nil
}

// Geocoded resolves a city/country pair to coordinates through the Google
// geocoding API, once, and returns a stationary source for the result. The
// geocoder package key must be set by the caller (geocoder.ApiKey).
// Altitude is not part of geocoding responses and is supplied separately.
func Geocoded(city, country string, altitude float64) (solartime.PositionSource, error) {
	address := geocoder.Address{
		City:    city,
		Country: country,
	}
	location, err := geocoder.Geocoding(address)
	if err != nil {
		return solartime.PositionSource{}, fmt.Errorf("geocode %s, %s: %w", city, country, err)
	}
	return Stationary(country, city, location.Latitude, location.Longitude, altitude)
}
