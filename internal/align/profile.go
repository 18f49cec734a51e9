package align

import "lexcurate/internal/lexicon"

const (
	matchScore    = 1
	mismatchScore = -1
	gapScore      = -1
)

// profile is a growing multiple alignment. rows[r][c] is the token of row r
// in column c; columns[c] counts the non-gap tokens of column c.
type profile struct {
	rows    [][]string
	columns []map[string]int
}

func newProfile(first []string) *profile {
	p := &profile{}
	row := make([]string, len(first))
	copy(row, first)
	p.rows = append(p.rows, row)
	for _, token := range first {
		p.columns = append(p.columns, map[string]int{token: 1})
	}
	return p
}

func (p *profile) width() int {
	return len(p.columns)
}

func (p *profile) score(column int, token string) int {
	if p.columns[column][token] > 0 {
		return matchScore
	}
	return mismatchScore
}

type step int

const (
	stepDiag step = iota // token aligned to an existing column
	stepUp               // token opens a new column
	stepLeft             // existing column, gap in the new row
)

// add aligns seq against the profile and appends it as a new row.
func (p *profile) add(seq []string) {
	n, m := len(seq), p.width()
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
		dp[i][0] = i * gapScore
	}
	for j := 0; j <= m; j++ {
		dp[0][j] = j * gapScore
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			diag := dp[i-1][j-1] + p.score(j-1, seq[i-1])
			up := dp[i-1][j] + gapScore
			left := dp[i][j-1] + gapScore
			dp[i][j] = max(diag, up, left)
		}
	}

	var steps []step
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+p.score(j-1, seq[i-1]):
			steps = append(steps, stepDiag)
			i--
			j--
		case i > 0 && dp[i][j] == dp[i-1][j]+gapScore:
			steps = append(steps, stepUp)
			i--
		default:
			steps = append(steps, stepLeft)
			j--
		}
	}

	rows := make([][]string, len(p.rows)+1)
	columns := make([]map[string]int, 0, len(steps))
	i, j = 0, 0
	for k := len(steps) - 1; k >= 0; k-- {
		switch steps[k] {
		case stepDiag:
			for r := range p.rows {
				rows[r] = append(rows[r], p.rows[r][j])
			}
			rows[len(p.rows)] = append(rows[len(p.rows)], seq[i])
			column := p.columns[j]
			column[seq[i]]++
			columns = append(columns, column)
			i++
			j++
		case stepUp:
			for r := range p.rows {
				rows[r] = append(rows[r], lexicon.GapToken)
			}
			rows[len(p.rows)] = append(rows[len(p.rows)], seq[i])
			columns = append(columns, map[string]int{seq[i]: 1})
			i++
		case stepLeft:
			for r := range p.rows {
				rows[r] = append(rows[r], p.rows[r][j])
			}
			rows[len(p.rows)] = append(rows[len(p.rows)], lexicon.GapToken)
			columns = append(columns, p.columns[j])
			j++
		}
	}
	p.rows = rows
	p.columns = columns
}

// progressive aligns every sequence in order. Empty sequences become rows of
// gaps.
func progressive(seqs [][]string) [][]string {
	var p *profile
	for _, seq := range seqs {
		if p == nil {
			if len(seq) == 0 {
				continue
			}
			p = newProfile(seq)
			continue
		}
		p.add(seq)
	}
	out := make([][]string, len(seqs))
	if p == nil {
		return out
	}
	// Rows were appended only for non-empty prefixes of seqs; map them back.
	next := 0
	started := false
	for i, seq := range seqs {
		if !started && len(seq) == 0 {
			out[i] = gaps(p.width())
			continue
		}
		started = true
		out[i] = p.rows[next]
		next++
	}
	return out
}

// pad appends gaps so every sequence reaches the longest length.
func pad(seqs [][]string) [][]string {
	width := 0
	for _, seq := range seqs {
		width = max(width, len(seq))
	}
	out := make([][]string, len(seqs))
	for i, seq := range seqs {
		out[i] = lexicon.Alignment(seq).Padded(width)
	}
	return out
}

func gaps(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = lexicon.GapToken
	}
	return out
}
