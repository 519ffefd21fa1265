// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/konc"
)

// Validation pipeline assembled from the public operators end to end:
// environment-driven rules, per-record bracketed processing and an
// aggregation over the whole batch.

type batchRules struct {
	maxLen  int
	allowed []string
}

type auditLog struct {
	lines []string
}

func (l *auditLog) add(s string) { l.lines = append(l.lines, s) }

func normalize(raw string) konc.Cont[batchRules, string, string] {
	return konc.Map(konc.Of[batchRules, string](raw), strings.TrimSpace)
}

func validated(raw string) konc.Cont[batchRules, string, string] {
	checked := konc.ThenDo(normalize(raw), func(s string) konc.Cont[batchRules, string, string] {
		return konc.ThenDo(konc.Ask[batchRules, string](), func(rules batchRules) konc.Cont[batchRules, string, string] {
			if len(s) > rules.maxLen {
				return konc.Stop[batchRules, string](s + ": too long")
			}
			for _, a := range rules.allowed {
				if strings.HasPrefix(s, a) {
					return konc.Of[batchRules, string](s)
				}
			}
			return konc.Stop[batchRules, string](s + ": not allowed")
		})
	})
	return checked
}

func audited(log *auditLog, raw string) konc.Cont[batchRules, string, string] {
	open := konc.FromRun(func(_ konc.Runtime[batchRules], ob konc.Observer[string, *auditLog]) {
		log.add("open " + raw)
		ob.Then(log)
	})
	return konc.Bracket(
		open,
		func(l *auditLog) konc.Cont[batchRules, string, struct{}] {
			return konc.FromRun(func(_ konc.Runtime[batchRules], ob konc.Observer[string, struct{}]) {
				l.add("close " + raw)
				ob.Then(struct{}{})
			})
		},
		func(*auditLog) konc.Cont[batchRules, string, string] { return validated(raw) },
		nil)
}

func TestValidationPipeline(t *testing.T) {
	rules := batchRules{maxLen: 16, allowed: []string{"svc-", "job-"}}
	log := &auditLog{}

	batch := []konc.Cont[batchRules, string, string]{
		audited(log, "  svc-ingest  "),
		audited(log, "job-compact"),
		audited(log, "svc-overlong-name-beyond-limit"),
		audited(log, "cron-rogue"),
	}

	var rec recorder[string, []string]
	konc.Run(konc.All(batch, konc.Uniform(konc.RunAll), konc.Merge[string](concat)),
		rules, rec.onThen, rec.onElse, rec.onCrash)

	require.Len(t, rec.elses, 1, "a batch with bad records must fail as a whole")
	failure := rec.elses[0]
	assert.Contains(t, failure, "svc-overlong-name-beyond-limit: too long")
	assert.Contains(t, failure, "cron-rogue: not allowed")
	assert.NotContains(t, failure, "svc-ingest")

	// Every record's audit scope was opened and closed, valid or not.
	opens, closes := 0, 0
	for _, line := range log.lines {
		switch {
		case strings.HasPrefix(line, "open "):
			opens++
		case strings.HasPrefix(line, "close "):
			closes++
		}
	}
	assert.Equal(t, 4, opens)
	assert.Equal(t, 4, closes)
}

func TestValidationPipelineAllValid(t *testing.T) {
	rules := batchRules{maxLen: 32, allowed: []string{"svc-"}}
	log := &auditLog{}

	batch := []konc.Cont[batchRules, string, string]{
		audited(log, " svc-a "),
		audited(log, "svc-b"),
	}

	var rec recorder[string, []string]
	konc.Run(konc.All(batch, konc.Uniform(konc.Sequence), nil),
		rules, rec.onThen, rec.onElse, rec.onCrash)

	require.Len(t, rec.thens, 1)
	assert.Equal(t, []string{"svc-a", "svc-b"}, rec.thens[0])
	assert.Equal(t, []string{"open  svc-a ", "close  svc-a ", "open svc-b", "close svc-b"}, log.lines)
}

func TestValidationPipelineFallback(t *testing.T) {
	rules := batchRules{maxLen: 16, allowed: []string{"svc-"}}
	log := &auditLog{}

	primary := audited(log, "cron-rogue")
	fallback := audited(log, "svc-backup")

	var rec recorder[string, string]
	konc.Run(konc.Either(primary, fallback, konc.Uniform(konc.Sequence), nil, nil),
		rules, rec.onThen, rec.onElse, rec.onCrash)

	require.Len(t, rec.thens, 1)
	assert.Equal(t, "svc-backup", rec.thens[0])
}
