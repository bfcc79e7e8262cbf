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

package extension

import (
	"github.com/jetsetilly/gospike/logger"
	"github.com/jetsetilly/gospike/hardware/processor"
)

// dummy is the built-in do-nothing extension. It exists so that the registry
// path can be exercised without any real coprocessor being available.
type dummy struct {
	hart *processor.Processor
}

func (d *dummy) Name() string {
	return "dummy"
}

func (d *dummy) Attach(p *processor.Processor) {
	d.hart = p
	logger.Logf("extension", "dummy attached to hart %d", p.HartID)
}

func init() {
	_ = Register("dummy", func() Extension { return &dummy{} })
}
