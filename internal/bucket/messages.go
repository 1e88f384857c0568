package bucket

import (
	"fmt"

	"github.com/bashhack/gitslice/internal/numstat"
)

func selectMessage(number int, limits numstat.Limits, remaining int) string {
	msg := fmt.Sprintf("Select files for bucket #%d (max %d files", number, min(limits.MaxFiles, remaining))
	if limits.HasLineLimit() {
		msg += fmt.Sprintf(", %d lines", limits.MaxLines)
	}
	return msg + "):"
}

func commitQuestion(number int) string {
	return fmt.Sprintf("Commit message for bucket #%d:", number)
}
