// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides HTTP request handling functionality for Crop Doctor.

Route definitions are centralized in the router package's DefineRoutes
function, which sets up all paths and their corresponding handlers.
*/
package middleware
