package statistics

import (
	"math"
	"testing"
)

func TestSample_Empty(t *testing.T) {
	s := &Sample{}

	if s.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty sample, got %f", s.Mean())
	}
	if s.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty sample, got %f", s.Variance())
	}
	if s.StdDev() != 0 {
		t.Errorf("Expected stddev of 0 for empty sample, got %f", s.StdDev())
	}
	if s.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty sample, got %f", s.StdError())
	}
	if s.Median() != 0 {
		t.Errorf("Expected median of 0 for empty sample, got %f", s.Median())
	}
	if s.Percentile(0.5) != 0 {
		t.Errorf("Expected percentile of 0 for empty sample, got %f", s.Percentile(0.5))
	}
}

func TestSample_SingleValue(t *testing.T) {
	s := &Sample{}
	s.Add(2.5)

	if s.Count != 1 {
		t.Errorf("Expected 1 observation, got %d", s.Count)
	}
	if s.Mean() != 2.5 {
		t.Errorf("Expected mean of 2.5, got %f", s.Mean())
	}
	if s.Variance() != 0 {
		t.Errorf("Expected variance of 0 for single value, got %f", s.Variance())
	}
	if s.Median() != 2.5 {
		t.Errorf("Expected median of 2.5, got %f", s.Median())
	}
	if s.Min != 2.5 || s.Max != 2.5 {
		t.Errorf("Expected min and max of 2.5, got %f and %f", s.Min, s.Max)
	}
}

func TestSample_MultipleValues(t *testing.T) {
	s := &Sample{}
	for _, v := range []float64{1.0, -2.0, 3.0, 0.0, -1.0} {
		s.Add(v)
	}

	expectedMean := (1.0 - 2.0 + 3.0 + 0.0 - 1.0) / 5.0
	if math.Abs(s.Mean()-expectedMean) > 1e-9 {
		t.Errorf("Expected mean of %f, got %f", expectedMean, s.Mean())
	}
	if s.Count != 5 {
		t.Errorf("Expected 5 observations, got %d", s.Count)
	}

	// Sorted values: -2, -1, 0, 1, 3
	if s.Median() != 0.0 {
		t.Errorf("Expected median of 0.0, got %f", s.Median())
	}
	if s.Min != -2.0 {
		t.Errorf("Expected min of -2.0, got %f", s.Min)
	}
	if s.Max != 3.0 {
		t.Errorf("Expected max of 3.0, got %f", s.Max)
	}
}

func TestSample_Percentiles(t *testing.T) {
	s := &Sample{}
	for i := 1; i <= 5; i++ {
		s.Add(float64(i))
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}

	for _, test := range tests {
		result := s.Percentile(test.percentile)
		if math.Abs(result-test.expected) > 1e-9 {
			t.Errorf("Percentile %.2f: expected %f, got %f", test.percentile, test.expected, result)
		}
	}
}

func TestSample_ConfidenceInterval(t *testing.T) {
	s := &Sample{}
	for _, v := range []float64{1, 2, 3, 4, 5} {
		s.Add(v)
	}

	low, high := s.ConfidenceInterval95()
	mean := s.Mean()

	// CI should be symmetric around the mean
	if math.Abs((low+high)/2-mean) > 1e-9 {
		t.Errorf("Confidence interval not symmetric around mean. Low: %f, High: %f, Mean: %f", low, high, mean)
	}

	// CI should be wider than zero for multiple values
	if high-low <= 0 {
		t.Errorf("Confidence interval should be positive width, got %f", high-low)
	}
}

func TestSample_Variance(t *testing.T) {
	s := &Sample{}

	// Sample variance of [1, 3, 5] is 4.0
	for _, v := range []float64{1, 3, 5} {
		s.Add(v)
	}

	if math.Abs(s.Variance()-4.0) > 1e-9 {
		t.Errorf("Expected variance of 4.0, got %f", s.Variance())
	}
	if math.Abs(s.StdDev()-2.0) > 1e-9 {
		t.Errorf("Expected stddev of 2.0, got %f", s.StdDev())
	}
}
