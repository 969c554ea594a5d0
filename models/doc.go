// Package models holds the low-level records exchanged with the remote
// campaign store, plus the auth claims carried by campaign tokens.
//
// Every record mirrors the JSON shape stored under its path. Fields are
// optional on the wire; absent fields decode to their zero value. Numeric
// fields that the store sometimes writes as strings use [FlexInt].
package models
