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

package hardware

import (
	"fmt"
	"strings"
)

// timebase frequency advertised in the device tree. the simulation makes no
// timing promises so the value is nominal.
const timebaseFrequency = 10000000

// DTS renders the assembled hart and memory topology as a device tree
// source string. A read-only diagnostic; rendering has no effect on the
// machine.
func (m *Machine) DTS() string {
	s := strings.Builder{}

	s.WriteString("/dts-v1/;\n")
	s.WriteString("\n")
	s.WriteString("/ {\n")
	s.WriteString("  #address-cells = <2>;\n")
	s.WriteString("  #size-cells = <2>;\n")
	s.WriteString("  compatible = \"ucbbar,spike-bare-dev\";\n")
	s.WriteString("  model = \"ucbbar,spike-bare\";\n")

	s.WriteString("  cpus {\n")
	s.WriteString("    #address-cells = <1>;\n")
	s.WriteString("    #size-cells = <0>;\n")
	s.WriteString(fmt.Sprintf("    timebase-frequency = <%d>;\n", timebaseFrequency))
	for _, p := range m.Harts {
		s.WriteString(fmt.Sprintf("    CPU%d: cpu@%d {\n", p.Index, p.HartID))
		s.WriteString("      device_type = \"cpu\";\n")
		s.WriteString(fmt.Sprintf("      reg = <%d>;\n", p.HartID))
		s.WriteString("      status = \"okay\";\n")
		s.WriteString("      compatible = \"riscv\";\n")
		s.WriteString(fmt.Sprintf("      riscv,isa = \"%s\";\n", strings.ToLower(p.ISA)))
		s.WriteString("      mmu-type = \"riscv,sv48\";\n")
		s.WriteString("    };\n")
	}
	s.WriteString("  };\n")

	for _, r := range m.Mem.Regions() {
		s.WriteString(fmt.Sprintf("  memory@%x {\n", r.Base))
		s.WriteString("    device_type = \"memory\";\n")
		s.WriteString(fmt.Sprintf("    reg = <0x%x 0x%x 0x%x 0x%x>;\n",
			r.Base>>32, r.Base&0xffffffff, r.Size>>32, r.Size&0xffffffff))
		s.WriteString("  };\n")
	}

	s.WriteString("};\n")

	return s.String()
}
