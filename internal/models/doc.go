// Package models holds the JSON wire types exchanged between the artfolio
// client and the gallery REST API. Field names follow the backend
// serializers (snake_case), except where the API itself uses camelCase
// (e.g. RegisterRequest.FullName).
package models
