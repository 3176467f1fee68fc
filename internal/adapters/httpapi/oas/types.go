// Package oas holds the wire types and route bindings of the HTTP API.
package oas

import "github.com/oapi-codegen/nullable"

// SchemaVersion is bumped whenever a response field changes meaning or is removed.
const SchemaVersion = 1

// ErrorResponse is the envelope returned for every non-2xx response.
type ErrorResponse struct {
	Error struct {
		Code      string                                    `json:"code"`
		Details   nullable.Nullable[map[string]interface{}] `json:"details,omitempty"`
		Message   string                                    `json:"message"`
		RequestId nullable.Nullable[string]                 `json:"requestId,omitempty"`
	} `json:"error"`
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Location string  `json:"location"`
	Radius   float64 `json:"radius"`
	Unit     string  `json:"unit,omitempty"`
}

// SearchParams are the GET /search query parameters.
type SearchParams struct {
	Location *string  `form:"location,omitempty" json:"location,omitempty"`
	Radius   *float64 `form:"radius,omitempty" json:"radius,omitempty"`
	Unit     *string  `form:"unit,omitempty" json:"unit,omitempty"`
}

type SearchResultEntry struct {
	MemberId         string     `json:"memberId"`
	DisplayName      string     `json:"displayName"`
	LocationParts    []string   `json:"locationParts"`
	Distance         float64    `json:"distance"`
	Coordinate       Coordinate `json:"coordinate"`
	AvatarUrl        string     `json:"avatarUrl"`
	ProfileUrl       string     `json:"profileUrl"`
	ProfileType      string     `json:"profileType"`
	ProfileTypeLabel string     `json:"profileTypeLabel"`
}

type SearchResponse struct {
	SchemaVersion int                 `json:"schemaVersion"`
	Users         []SearchResultEntry `json:"users"`
	Center        Coordinate          `json:"center"`
	Count         int                 `json:"count"`
	Unit          string              `json:"unit"`
}

type MemberLocation struct {
	MemberId   string   `json:"memberId"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Country    string   `json:"country"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Searchable bool     `json:"searchable"`
	UpdatedAt  string   `json:"updatedAt,omitempty"`
}

type MemberLocationResponse struct {
	Location MemberLocation `json:"location"`
}

// UpdateMyLocationRequest is the PUT /members/me/location body.
// Omitted and null lat/lng/searchable are distinguished.
type UpdateMyLocationRequest struct {
	City       *string                    `json:"city,omitempty"`
	State      *string                    `json:"state,omitempty"`
	Country    *string                    `json:"country,omitempty"`
	Lat        nullable.Nullable[float64] `json:"lat,omitempty"`
	Lng        nullable.Nullable[float64] `json:"lng,omitempty"`
	Searchable nullable.Nullable[bool]    `json:"searchable,omitempty"`
	Redirect   *string                    `json:"redirect,omitempty"`
}

type UpdateMyLocationResponse struct {
	Message  string         `json:"message"`
	Redirect *string        `json:"redirect,omitempty"`
	Geocoded bool           `json:"geocoded"`
	Location MemberLocation `json:"location"`
}

type GeocodeRequest struct {
	Location string `json:"location"`
}

type GeocodeResponse struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Method string  `json:"method"`
}
