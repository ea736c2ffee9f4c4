package tenant

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/schoolhub/backend/internal/infrastructure/logger"
)

// Callback hooks school filtering into GORM's query pipeline. It only
// acts when the request context carries a tenant ID, the statement's
// model actually has a tenant_id column, and no tenant condition was
// composed already — platform operations and the shared tables
// (tenants, platform users, platform settings) pass through untouched.
type Callback struct {
	tenantColumn string
}

// NewCallback creates a new tenant callback handler
func NewCallback() *Callback {
	return &Callback{tenantColumn: "tenant_id"}
}

// Register installs the callbacks on a GORM DB. Creates are excluded:
// the tenant ID on new rows is set by the domain constructors, never
// inferred.
func (tc *Callback) Register(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addFilter); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addFilter); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addFilter); err != nil {
		return err
	}
	return db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addFilter)
}

func (tc *Callback) addFilter(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Unscoped {
		return
	}
	if db.Statement.Schema == nil || db.Statement.Schema.LookUpField(tc.tenantColumn) == nil {
		return
	}
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		return
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

func (tc *Callback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}
	return strings.Contains(db.Statement.SQL.String(), tc.tenantColumn)
}

func (tc *Callback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoFilter registers the defense-in-depth callbacks on a DB
func EnableAutoFilter(db *gorm.DB) error {
	return NewCallback().Register(db)
}
