package user

type Permission string

const (
	// Payroll
	PermissionPayrollView     Permission = "payroll.view"
	PermissionPayrollPreview  Permission = "payroll.preview"
	PermissionPayrollProcess  Permission = "payroll.process"
	PermissionPayrollFinalize Permission = "payroll.finalize"

	// Tax configuration
	PermissionTaxConfigView   Permission = "taxconfig.view"
	PermissionTaxConfigManage Permission = "taxconfig.manage"

	// Bonuses
	PermissionBonusView    Permission = "bonus.view"
	PermissionBonusManage  Permission = "bonus.manage"
	PermissionBonusApprove Permission = "bonus.approve"

	// Deductions
	PermissionDeductionView   Permission = "deduction.view"
	PermissionDeductionManage Permission = "deduction.manage"
)

// RolePermissions is the built-in policy. It seeds the authorizer when no
// policy file is configured.
var RolePermissions = map[Role][]Permission{
	RoleHRAdmin: {
		PermissionPayrollView,
		PermissionPayrollPreview,
		PermissionPayrollProcess,
		PermissionPayrollFinalize,
		PermissionTaxConfigView,
		PermissionTaxConfigManage,
		PermissionBonusView,
		PermissionBonusManage,
		PermissionBonusApprove,
		PermissionDeductionView,
		PermissionDeductionManage,
	},
	RoleManager: {
		PermissionBonusView,
		PermissionBonusManage,
		PermissionDeductionView,
	},
	RoleSupervisor: {
		PermissionBonusView,
	},
	RoleEmployee: {},
	RoleSystem: {
		PermissionPayrollView,
		PermissionPayrollPreview,
		PermissionPayrollProcess,
		PermissionTaxConfigView,
		PermissionTaxConfigManage,
	},
}
