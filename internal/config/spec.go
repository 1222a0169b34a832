package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agbru/workerlab/internal/rangeseq"
	"github.com/agbru/workerlab/internal/scenario"
	"github.com/agbru/workerlab/internal/worker"
)

// ParseWorkerSpecs parses a comma separated list of delta workers written as
// name:DELTAxCOUNT, e.g. "deposit:+1x5,withdrawal:-1x3". Deltas are integers.
func ParseWorkerSpecs(s string) ([]scenario.DeltaSpec, error) {
	var specs []scenario.DeltaSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rest, ok := strings.Cut(part, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("worker %q: want name:DELTAxCOUNT", part)
		}
		deltaText, countText, ok := strings.Cut(rest, "x")
		if !ok {
			return nil, fmt.Errorf("worker %q: want name:DELTAxCOUNT", part)
		}
		delta, err := strconv.ParseInt(deltaText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("worker %q: delta %q is not an integer", name, deltaText)
		}
		count, err := strconv.Atoi(countText)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("worker %q: count %q is not a non-negative integer", name, countText)
		}
		specs = append(specs, scenario.DeltaSpec{Name: name, Delta: delta, Count: count})
	}
	return specs, nil
}

// ParseProducerSpecs parses a semicolon separated list of producers written
// as queue=operation:inputs. Inputs are either a comma list ("2,3,4,5") or a
// half-open range ("2:6"). A producer is named after its queue; further
// producers on the same queue get a "#n" suffix.
func ParseProducerSpecs(s string) ([]scenario.ProducerSpec, error) {
	var specs []scenario.ProducerSpec
	perQueue := make(map[string]int)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		queueName, rest, ok := strings.Cut(part, "=")
		if !ok || queueName == "" {
			return nil, fmt.Errorf("producer %q: want queue=operation:inputs", part)
		}
		opName, inputText, _ := strings.Cut(rest, ":")
		op, err := worker.LookupOperation(opName)
		if err != nil {
			return nil, fmt.Errorf("producer %q: %w (known: %s)", queueName, err, strings.Join(worker.OperationNames(), ", "))
		}
		inputs, err := parseInputs(inputText)
		if err != nil {
			return nil, fmt.Errorf("producer %q: %w", queueName, err)
		}

		perQueue[queueName]++
		name := queueName
		if n := perQueue[queueName]; n > 1 {
			name = fmt.Sprintf("%s#%d", queueName, n)
		}
		specs = append(specs, scenario.ProducerSpec{Name: name, Queue: queueName, Operation: op, Inputs: inputs})
	}
	return specs, nil
}

func parseInputs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int64{}, nil
	}
	if startText, endText, isRange := strings.Cut(s, ":"); isRange {
		start, err := strconv.ParseInt(startText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("range start %q is not an integer", startText)
		}
		end, err := strconv.ParseInt(endText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("range end %q is not an integer", endText)
		}
		if end < start {
			return nil, fmt.Errorf("range %d:%d is reversed", start, end)
		}
		if uint64(end)-uint64(start) > maxRangeInputs {
			return nil, fmt.Errorf("range %d:%d has more than %d values", start, end, maxRangeInputs)
		}
		return rangeseq.New(start, end).Collect(), nil
	}

	fields := strings.Split(s, ",")
	inputs := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("input %q is not an integer", f)
		}
		inputs = append(inputs, v)
	}
	return inputs, nil
}

const maxRangeInputs = 1 << 20
