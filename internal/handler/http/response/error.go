package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A schedule that cannot be used blocks every computation for the date.
	if taxconfig.IsConfigurationError(err) {
		UnprocessableEntity(w, "TAX_CONFIGURATION_ERROR", err.Error())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrMissingClaims), errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid):
		Conflict(w, "Payroll record already paid")
	case errors.Is(err, payroll.ErrPayrollRecordNotProcessed):
		Conflict(w, "Payroll record is not processed")
	case errors.Is(err, payroll.ErrPayrollRecordNotPaid):
		Conflict(w, "Only paid payroll records can be superseded")
	case errors.Is(err, payroll.ErrCannotDeletePaidRecord):
		Conflict(w, "Cannot delete paid payroll record")
	case errors.Is(err, payroll.ErrEmployeeLocked):
		Conflict(w, "Payroll for this employee and period is being processed, retry shortly")
	case errors.Is(err, payroll.ErrEmployeeNotEligible):
		UnprocessableEntity(w, "NOT_ELIGIBLE", "Employee is not eligible for payroll in this period")
	case errors.Is(err, payroll.ErrInvalidIncome):
		UnprocessableEntity(w, "INVALID_INCOME", "Gross income is negative or missing")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Tax configuration errors
	case errors.Is(err, taxconfig.ErrTaxBracketNotFound):
		NotFound(w, "Tax bracket not found")
	case errors.Is(err, taxconfig.ErrTaxBracketNameExists):
		Conflict(w, "Tax bracket name already exists for this effective date")
	case errors.Is(err, taxconfig.ErrTaxBracketAlreadyEnded):
		Conflict(w, "Tax bracket is already inactive")
	case errors.Is(err, taxconfig.ErrInvalidConfigType):
		BadRequest(w, "Invalid tax config type", nil)

	// Bonus and deduction errors
	case errors.Is(err, bonus.ErrBonusNotFound):
		NotFound(w, "Bonus not found")
	case errors.Is(err, bonus.ErrBonusAlreadyReviewed):
		Conflict(w, "Bonus already approved or rejected")
	case errors.Is(err, bonus.ErrInvalidBonusType):
		BadRequest(w, "Invalid bonus type", nil)
	case errors.Is(err, deduction.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
