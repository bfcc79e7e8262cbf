// This file is part of GoSpike.
//
// GoSpike is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GoSpike is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GoSpike.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is how the project creates errors. Errors made with
// Errorf() remember the pattern they were created with, meaning the pattern
// can later be used to identify the error without string comparison of the
// formatted message.
//
// Packages declare their patterns close to where the error occurs and prefix
// them with the package name:
//
//	curated.Errorf("cache: %s: sets must be a power of two", label)
//
// A caller that wants to react to a specific error tests for it with Is()
// or, when the error may have been wrapped by an intervening curated error,
// with Has().
package curated
