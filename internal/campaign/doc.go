// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package campaign is the object graph of one mirrored campaign.
//
// A [Client] mirrors the players, characters, chat and campaign settings of
// a remote store and is ready once all four are. Players carry their macros
// and characters carry their attributes, abilities and blobs; each such
// object is handed out only after its nested collections are ready.
package campaign
