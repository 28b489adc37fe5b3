package mysql

const loadApprovalsSQL = `
SELECT id_kind, id_value
FROM review_approvals
WHERE schema_version = ?
ORDER BY id_kind, id_value
`

// Same as loadApprovalsSQL but locks the rows for the saving transaction.
const lockApprovalsSQL = loadApprovalsSQL + "FOR UPDATE\n"

const deleteApprovalSQL = `
DELETE FROM review_approvals
WHERE schema_version = ? AND id_kind = ? AND id_value = ?
`

// Rows are appended as "(?, ?, ?)" per id.
const insertApprovalsPrefix = "INSERT INTO review_approvals\n  (schema_version, id_kind, id_value)\nVALUES "

// approved_at keeps its first value if a concurrent save inserted the id.
const insertApprovalsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  approved_at = review_approvals.approved_at\n"
