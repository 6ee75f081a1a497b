// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets exposes the embedded static content to the rest of the
application. The embed.FS itself lives in main, which assigns it here
during init.
*/
package assets

import "embed"

// FS holds the embedded web pages, translation catalogs and model metadata.
var FS embed.FS
