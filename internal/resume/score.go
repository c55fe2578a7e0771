package resume

import "math"

// Score is the percentage of job tokens covered by the resume: every distinct
// resume word contributes its frequency in the job description. The result
// is rounded to two decimals; a job without tokens scores 0.
func Score(jobTokens, resumeTokens []string) float64 {
	if len(jobTokens) == 0 {
		return 0
	}

	freq := make(map[string]int, len(jobTokens))
	for _, w := range jobTokens {
		freq[w]++
	}

	seen := make(map[string]struct{}, len(resumeTokens))
	matched := 0
	for _, w := range resumeTokens {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		matched += freq[w]
	}

	return math.Round(float64(matched)*100/float64(len(jobTokens))*100) / 100
}
