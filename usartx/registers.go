package usartx

// Register is a 32-bit memory-mapped register. *volatile.Register32 satisfies
// it on TinyGo targets; Reg32 backs it with plain memory on hosts.
type Register interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	HasBits(value uint32) bool
}

// RegisterBlock is the F1 USART register map (RM0008 §27.6).
type RegisterBlock struct {
	SR   Register // status
	DR   Register // data
	BRR  Register // baud rate
	CR1  Register
	CR2  Register
	CR3  Register
	GTPR Register // guard time and prescaler
}

// SR bits.
const (
	srPE   = 1 << 0
	srFE   = 1 << 1
	srNE   = 1 << 2
	srORE  = 1 << 3
	srIDLE = 1 << 4
	srRXNE = 1 << 5
	srTC   = 1 << 6
	srTXE  = 1 << 7

	srErrors = srPE | srFE | srNE | srORE

	// srReset is SR after reset: TXE and TC set.
	srReset = srTXE | srTC
)

// CR1 bits.
const (
	cr1RE  = 1 << 2
	cr1TE  = 1 << 3
	cr1PS  = 1 << 9
	cr1PCE = 1 << 10
	cr1M   = 1 << 12
	cr1UE  = 1 << 13
)

// CR2 STOP field.
const (
	cr2StopPos  = 12
	cr2StopMask = 0x3 << cr2StopPos
	cr2Stop1    = 0x0 << cr2StopPos
	cr2Stop2    = 0x2 << cr2StopPos
)

// CR3 bits.
const (
	cr3RTSE = 1 << 8
	cr3CTSE = 1 << 9
)

// Reg32 is a plain-memory Register for hosts and tests.
type Reg32 struct {
	v uint32
}

func (r *Reg32) Get() uint32            { return r.v }
func (r *Reg32) Set(value uint32)       { r.v = value }
func (r *Reg32) SetBits(value uint32)   { r.v |= value }
func (r *Reg32) ClearBits(value uint32) { r.v &^= value }
func (r *Reg32) HasBits(value uint32) bool {
	return r.v&value != 0
}

// NewSimBlock returns a memory-backed register block at reset values.
func NewSimBlock() *RegisterBlock {
	sr := &Reg32{v: srReset}
	return &RegisterBlock{
		SR:   sr,
		DR:   &Reg32{},
		BRR:  &Reg32{},
		CR1:  &Reg32{},
		CR2:  &Reg32{},
		CR3:  &Reg32{},
		GTPR: &Reg32{},
	}
}
