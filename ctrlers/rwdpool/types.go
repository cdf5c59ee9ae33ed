package rwdpool

import (
	v1 "github.com/beatoz/beatoz-rwdpool/ledger/v1"
	"github.com/beatoz/beatoz-rwdpool/libs/jsonx"
	"github.com/beatoz/beatoz-rwdpool/types"
	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	"github.com/holiman/uint256"
)

// RewardPeriod emits Reward linearly over [Start, End).
// Times are unix seconds.
type RewardPeriod struct {
	ID     uint64        `json:"id"`
	Funder types.Address `json:"funder"`
	Reward *uint256.Int  `json:"reward"`
	Rate   *uint256.Int  `json:"rate"`
	Start  int64         `json:"start"`
	End    int64         `json:"end"`

	// Emitted is the reward credited to stakers so far.
	// Time with no stake and the remainder of Reward/(End-Start) are never credited.
	Emitted         *uint256.Int `json:"emitted"`
	LastUpdated     int64        `json:"lastUpdated"`
	TotalStaked     *uint256.Int `json:"totalStaked"`
	RewardPerWeight *uint256.Int `json:"rewardPerWeight"`
}

func newRewardPeriod(id uint64, funder types.Address, reward *uint256.Int, start, end int64) *RewardPeriod {
	rate := new(uint256.Int).Div(reward, uint256.NewInt(uint64(end-start)))
	return &RewardPeriod{
		ID:              id,
		Funder:          funder,
		Reward:          reward.Clone(),
		Rate:            rate,
		Start:           start,
		End:             end,
		Emitted:         uint256.NewInt(0),
		LastUpdated:     start,
		TotalStaked:     uint256.NewInt(0),
		RewardPerWeight: uint256.NewInt(0),
	}
}

// Contains reports whether `now` is in [Start, End).
func (p *RewardPeriod) Contains(now int64) bool {
	return p.Start <= now && now < p.End
}

func (p *RewardPeriod) Encode() ([]byte, xerrors.XError) {
	return encodeItem(p)
}

func (p *RewardPeriod) Decode(bz []byte) xerrors.XError {
	return decodeItem(bz, p)
}

// Stake is identified by its owner and an id sequential per owner.
type Stake struct {
	ID         uint64        `json:"id"`
	Owner      types.Address `json:"owner"`
	Amount     *uint256.Int  `json:"amount"`
	OpenTime   int64         `json:"openTime"`
	CloseTime  int64         `json:"closeTime"`
	Closed     bool          `json:"closed"`
	Checkpoint *uint256.Int  `json:"checkpoint"`
	Accrued    *uint256.Int  `json:"accrued"`
	Paid       *uint256.Int  `json:"paid"`
}

func (s *Stake) IsOpen() bool {
	return !s.Closed
}

func (s *Stake) Encode() ([]byte, xerrors.XError) {
	return encodeItem(s)
}

func (s *Stake) Decode(bz []byte) xerrors.XError {
	return decodeItem(bz, s)
}

func (s *Stake) clone() *Stake {
	return &Stake{
		ID:         s.ID,
		Owner:      s.Owner,
		Amount:     s.Amount.Clone(),
		OpenTime:   s.OpenTime,
		CloseTime:  s.CloseTime,
		Closed:     s.Closed,
		Checkpoint: s.Checkpoint.Clone(),
		Accrued:    s.Accrued.Clone(),
		Paid:       s.Paid.Clone(),
	}
}

// Staker is the per account record of the pool.
type Staker struct {
	Address     types.Address `json:"address"`
	StakesCount uint64        `json:"stakesCount"`
	Staked      *uint256.Int  `json:"staked"`
	Balance     *uint256.Int  `json:"balance"`
	RewardsPaid *uint256.Int  `json:"rewardsPaid"`
}

func newStaker(addr types.Address) *Staker {
	return &Staker{
		Address:     addr,
		Staked:      uint256.NewInt(0),
		Balance:     uint256.NewInt(0),
		RewardsPaid: uint256.NewInt(0),
	}
}

func (s *Staker) Encode() ([]byte, xerrors.XError) {
	return encodeItem(s)
}

func (s *Staker) Decode(bz []byte) xerrors.XError {
	return decodeItem(bz, s)
}

// PoolState is the single accumulator record of the pool.
type PoolState struct {
	TotalWeight     *uint256.Int `json:"totalWeight"`
	RewardPerWeight *uint256.Int `json:"rewardPerWeight"`
	LastUpdate      int64        `json:"lastUpdate"`
	PeriodsCount    uint64       `json:"periodsCount"`
	// PeriodCursor is the first period that ends after LastUpdate.
	PeriodCursor uint64       `json:"periodCursor"`
	TotalFunded  *uint256.Int `json:"totalFunded"`
	TotalPaid    *uint256.Int `json:"totalPaid"`
}

func newPoolState() *PoolState {
	return &PoolState{
		TotalWeight:     uint256.NewInt(0),
		RewardPerWeight: uint256.NewInt(0),
		TotalFunded:     uint256.NewInt(0),
		TotalPaid:       uint256.NewInt(0),
	}
}

func (s *PoolState) Encode() ([]byte, xerrors.XError) {
	return encodeItem(s)
}

func (s *PoolState) Decode(bz []byte) xerrors.XError {
	return decodeItem(bz, s)
}

func (s *PoolState) clone() *PoolState {
	return &PoolState{
		TotalWeight:     s.TotalWeight.Clone(),
		RewardPerWeight: s.RewardPerWeight.Clone(),
		LastUpdate:      s.LastUpdate,
		PeriodsCount:    s.PeriodsCount,
		PeriodCursor:    s.PeriodCursor,
		TotalFunded:     s.TotalFunded.Clone(),
		TotalPaid:       s.TotalPaid.Clone(),
	}
}

// RewardBalance is the funded reward not transferred yet.
func (s *PoolState) RewardBalance() *uint256.Int {
	return new(uint256.Int).Sub(s.TotalFunded, s.TotalPaid)
}

func encodeItem(item interface{}) ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(item)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func decodeItem(bz []byte, item interface{}) xerrors.XError {
	if err := jsonx.Unmarshal(bz, item); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func newItemFor(key v1.LedgerKey) v1.ILedgerItem {
	switch v1.KeyPrefixOf(key) {
	case v1.KeyPrefixPeriod[0]:
		return &RewardPeriod{}
	case v1.KeyPrefixStake[0]:
		return &Stake{}
	case v1.KeyPrefixStaker[0]:
		return &Staker{}
	case v1.KeyPrefixPoolState[0]:
		return &PoolState{}
	}
	panic("unknown reward pool ledger key prefix")
}

var _ v1.ILedgerItem = (*RewardPeriod)(nil)
var _ v1.ILedgerItem = (*Stake)(nil)
var _ v1.ILedgerItem = (*Staker)(nil)
var _ v1.ILedgerItem = (*PoolState)(nil)
