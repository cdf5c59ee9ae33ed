package metrics

import (
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "rwdpool"

const (
	ResultOK   = "ok"
	ResultFail = "fail"
)

// PoolMetrics exposes the reward pool state to prometheus.
// A nil *PoolMetrics is valid and records nothing.
type PoolMetrics struct {
	ops             *prometheus.CounterVec
	totalWeight     prometheus.Gauge
	rewardPerWeight prometheus.Gauge
	rewardsPaid     prometheus.Gauge
	periods         prometheus.Gauge
}

func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	m := &PoolMetrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Count of reward pool operations by name and result.",
		}, []string{"op", "result"}),
		totalWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_weight",
			Help:      "Sum of the amounts of all open stakes.",
		}),
		rewardPerWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reward_per_weight",
			Help:      "Accumulated reward per unit of weight, scaled by 1e18.",
		}),
		rewardsPaid: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rewards_paid_total",
			Help:      "Total reward transferred to stakers.",
		}),
		periods: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "periods",
			Help:      "Number of reward periods created.",
		}),
	}
	reg.MustRegister(m.ops, m.totalWeight, m.rewardPerWeight, m.rewardsPaid, m.periods)
	return m
}

func (m *PoolMetrics) ObserveOp(op string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultFail
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *PoolMetrics) SetState(totalWeight, rewardPerWeight, rewardsPaid *uint256.Int, periods uint64) {
	if m == nil {
		return
	}
	m.totalWeight.Set(toFloat(totalWeight))
	m.rewardPerWeight.Set(toFloat(rewardPerWeight))
	m.rewardsPaid.Set(toFloat(rewardsPaid))
	m.periods.Set(float64(periods))
}

func toFloat(v *uint256.Int) float64 {
	if v == nil {
		return 0
	}
	return decimal.NewFromBigInt(v.ToBig(), 0).InexactFloat64()
}
