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

package extension_test

import (
	"testing"

	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/hardware/extension"
	"github.com/jetsetilly/gospike/test"
)

func TestRegistry(t *testing.T) {
	// the dummy extension registers itself at init time
	f, err := extension.Find("dummy")
	test.ExpectedSuccess(t, err)
	test.Equate(t, f().Name(), "dummy")

	// each call to the factory is a distinct instance
	if f() == f() {
		t.Errorf("factory should not return a shared instance")
	}

	_, err = extension.Find("hwacha")
	test.ExpectedSuccess(t, curated.Is(err, extension.UnknownError))

	err = extension.Register("dummy", f)
	test.ExpectedSuccess(t, curated.Is(err, extension.DuplicateError))
}
