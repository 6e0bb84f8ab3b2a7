// Package geo provides great-circle math and display formatting helpers.
//
// Distances are computed with the haversine formula on a spherical Earth
// (R = 6371 km), which is the proximity metric used for step advancement.
// Formatting helpers produce the strings shown in the tracking UI: distance,
// duration, speed, and relative "time since last update" labels.
package geo
