package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/recoverly/riskcore/internal/domain/patient"
	"github.com/recoverly/riskcore/internal/domain/protocol"
	"github.com/recoverly/riskcore/internal/domain/risk"
	"github.com/recoverly/riskcore/pkg/metrics"
)

// DefaultHistoryLimit caps the per-patient assessment history.
const DefaultHistoryLimit = 30

// Engine evaluates patients against their registered surgery protocol and
// retains a capped per-patient assessment history. All state is owned by
// the instance; one RWMutex guards both maps so concurrent callers can
// share an engine.
type Engine struct {
	mu           sync.RWMutex
	protocols    map[patient.SurgeryType]*protocol.SurgeryProtocol
	history      map[string][]*risk.Assessment
	historyLimit int

	log       *zap.Logger
	collector *metrics.Collector
	tracer    trace.Tracer
}

func New(log *zap.Logger, collector *metrics.Collector, historyLimit int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Engine{
		protocols:    make(map[patient.SurgeryType]*protocol.SurgeryProtocol),
		history:      make(map[string][]*risk.Assessment),
		historyLimit: historyLimit,
		log:          log,
		collector:    collector,
		tracer:       otel.Tracer("riskcore/engine"),
	}
}

// RegisterProtocol upserts the protocol for its surgery type;
// last-registered wins.
func (e *Engine) RegisterProtocol(p *protocol.SurgeryProtocol) {
	e.mu.Lock()
	e.protocols[p.SurgeryType] = p
	registered := len(e.protocols)
	e.mu.Unlock()

	if e.collector != nil {
		e.collector.ProtocolsRegistered.Set(float64(registered))
	}
	e.log.Info("protocol registered",
		zap.String("protocol_id", p.ID),
		zap.String("surgery_type", string(p.SurgeryType)),
		zap.String("version", p.Version),
	)
}

// AssessPatientRisk runs the five risk scanners against the patient's
// current and historical symptoms, aggregates the factors, and appends
// the result to the patient's capped history. It fails without side
// effects when no protocol is registered for the patient's surgery type.
func (e *Engine) AssessPatientRisk(ctx context.Context, pat *patient.Patient) (*risk.Assessment, error) {
	inputs := pat.GetRiskInputs()

	_, span := e.tracer.Start(ctx, "engine.AssessPatientRisk", trace.WithAttributes(
		attribute.String("patient.id", pat.ID),
		attribute.String("surgery.type", string(inputs.SurgeryType)),
		attribute.Int("recovery.day", inputs.RecoveryDay),
	))
	defer span.End()

	start := time.Now()

	e.mu.RLock()
	proto := e.protocols[inputs.SurgeryType]
	e.mu.RUnlock()

	if proto == nil {
		if e.collector != nil {
			e.collector.ProtocolLookupMiss.Inc()
		}
		e.log.Warn("assessment rejected: protocol not registered",
			zap.String("patient_id", pat.ID),
			zap.String("surgery_type", string(inputs.SurgeryType)),
		)
		return nil, fmt.Errorf("%w: %s", ErrProtocolNotRegistered, inputs.SurgeryType)
	}

	factors := scanAll(proto, inputs)
	overall := overallRiskLevel(factors)
	urgency := urgencyFor(factors)

	result := &risk.Assessment{
		ID:                uuid.New(),
		PatientID:         pat.ID,
		SurgeryType:       string(inputs.SurgeryType),
		RecoveryDay:       inputs.RecoveryDay,
		OverallRiskLevel:  overall,
		Factors:           factors,
		Recommendations:   recommendations(factors, overall),
		Urgency:           urgency,
		AssessedAt:        time.Now(),
		NextReviewInHours: nextReviewHours(overall, inputs.RecoveryDay),
	}

	e.appendHistory(pat.ID, result)
	e.observe(result, time.Since(start))

	span.SetAttributes(
		attribute.String("risk.level", string(overall)),
		attribute.String("risk.urgency", string(urgency)),
		attribute.Int("risk.factors", len(factors)),
	)

	return result, nil
}

func (e *Engine) appendHistory(patientID string, result *risk.Assessment) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := append(e.history[patientID], result)
	if overflow := len(entries) - e.historyLimit; overflow > 0 {
		entries = entries[overflow:]
		if e.collector != nil {
			e.collector.HistoryEvictions.Add(float64(overflow))
		}
	}
	e.history[patientID] = entries
}

func (e *Engine) observe(result *risk.Assessment, elapsed time.Duration) {
	e.log.Info("patient assessed",
		zap.String("patient_id", result.PatientID),
		zap.String("risk_level", string(result.OverallRiskLevel)),
		zap.String("urgency", string(result.Urgency)),
		zap.Int("factors", len(result.Factors)),
		zap.Int("recovery_day", result.RecoveryDay),
	)

	if e.collector == nil {
		return
	}
	e.collector.AssessmentsTotal.
		WithLabelValues(string(result.OverallRiskLevel), string(result.Urgency)).Inc()
	e.collector.AssessmentDuration.Observe(elapsed.Seconds())
	for _, f := range result.Factors {
		e.collector.RiskFactorsTotal.
			WithLabelValues(string(f.Type), string(f.Severity)).Inc()
	}
}

// AssessmentHistory returns the patient's retained assessments, oldest
// first. The returned slice is a copy.
func (e *Engine) AssessmentHistory(patientID string) []*risk.Assessment {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entries := e.history[patientID]
	out := make([]*risk.Assessment, len(entries))
	copy(out, entries)
	return out
}

// RegisteredProtocols returns the surgery types with an active protocol,
// sorted for stable output.
func (e *Engine) RegisteredProtocols() []patient.SurgeryType {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]patient.SurgeryType, 0, len(e.protocols))
	for t := range e.protocols {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ClearHistory wipes every patient's assessment history.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = make(map[string][]*risk.Assessment)
}
