package framework

// CSPInfo contains cloud service provider information for optimization
type CSPInfo struct {
	Idx         int
	Name        string
	Cost        float64 // monetary units per allocated VM
	Reliability float64 // probability of no failure, in (0,1]
	Latency     float64 // time units per allocated VM
}

// VMInfo identifies a virtual machine. It carries no state used by the optimizer.
type VMInfo struct {
	Idx  int
	Name string
}

// NewVMs builds count VMs named VM1..VMn.
func NewVMs(count int) []VMInfo {
	vms := make([]VMInfo, count)
	for i := range vms {
		vms[i] = VMInfo{Idx: i, Name: vmName(i)}
	}
	return vms
}
