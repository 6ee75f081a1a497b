// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package untrusted reads and writes user-controlled cookies.

Values originate from the client and must be validated by callers before
use; this package only handles transport-level encoding and cookie
attributes.
*/
package untrusted
