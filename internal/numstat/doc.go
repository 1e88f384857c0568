// Package numstat turns the output of `git diff --numstat` into change records
// and measures them against commit size limits.
//
// Every function in this package is pure: nothing here runs git or keeps state
// between calls. A typical pass over a working tree looks like:
//
//	changes := numstat.Parse(output)
//	summary := numstat.Summarize(changes)
//	verdict := numstat.Evaluate(summary, numstat.Limits{MaxFiles: 10, MaxLines: 1000})
//	if !verdict.Within() {
//	    fmt.Println(verdict.Describe(summary, limits))
//	}
//
// Binary files are reported by git with "-" in both count columns; they parse
// to zero added and zero deleted lines but still count as one file.
package numstat
