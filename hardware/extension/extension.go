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

// Package extension is the registry of RoCC-style coprocessor extensions. An
// extension is attached once per hart. There is no dynamic code loading.
// Extensions register themselves by name at init time and the machine
// resolves the configured name into a factory at construction time.
package extension

import (
	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/hardware/processor"
)

// Extension is a per-hart pluggable execution unit. Instances are never
// shared between harts.
type Extension interface {
	Name() string

	// Attach connects the extension instance to its hart. Called exactly
	// once, during machine construction
	Attach(p *processor.Processor)
}

// Factory creates one extension instance.
type Factory func() Extension

// error patterns for registry lookup and registration.
const (
	UnknownError   = "extension: unknown extension (%s)"
	DuplicateError = "extension: extension already registered (%s)"
)

var registry = map[string]Factory{}

// Register an extension factory under a name. Extensions usually call this
// from an init() function.
func Register(name string, f Factory) error {
	if _, ok := registry[name]; ok {
		return curated.Errorf(DuplicateError, name)
	}
	registry[name] = f
	return nil
}

// Find the factory for a named extension.
func Find(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, curated.Errorf(UnknownError, name)
	}
	return f, nil
}
