// Package utils provides general-purpose helpers used across the campaign
// mirror: typed context keys, JSON response writing, the shared resty client
// constructor, campaign token signing and parsing, push key and UUID
// generation.
package utils
