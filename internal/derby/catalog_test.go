package derby

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columnLabels = []string{
	"TABLE_NAME", "COLUMN_NAME", "TYPE_NAME", "COLUMN_SIZE", "DECIMAL_DIGITS", "COLUMN_DEF", "IS_NULLABLE", "ORDINAL_POSITION",
}

var identityLabels = []string{"AUTOINCREMENTSTART", "AUTOINCREMENTINC", "COLUMNNAME", "REFERENCEID", "COLUMNDEFAULT"}

func TestTables(t *testing.T) {
	a, mock := newMockAdapter(t, Config{Username: "app"})
	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLTABLES")).
		WithArgs("app", jdbcOptions).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("USERS").AddRow(nil).AddRow("POSTS"))

	tables, err := a.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"USERS", "POSTS"}, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestColumns(t *testing.T) {
	a, mock := newMockAdapter(t, Config{Schema: "APP"})
	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLCOLUMNS")).
		WithArgs("APP", "USERS", jdbcOptions).
		WillReturnRows(sqlmock.NewRows(columnLabels).
			AddRow("USERS", "STATUS", "VARCHAR", "20", nil, "'new'", "NO", "4").
			AddRow("USERS", "ID", "INTEGER", "10", "0", "GENERATED_BY_DEFAULT", "NO", "1").
			AddRow("USERS", "PRICE", "DECIMAL", "10", "2", nil, "YES", "3").
			AddRow("USERS", "NAME", "VARCHAR", "256", nil, nil, "YES", "2"))

	cols, err := a.Columns(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, cols, 4)

	assert.Equal(t, "ID", cols[0].Name)
	assert.Equal(t, TypeInteger, cols[0].Type)
	assert.Equal(t, "INTEGER", cols[0].SQLType)
	assert.False(t, cols[0].Null)
	assert.Nil(t, cols[0].Limit)

	assert.Equal(t, "NAME", cols[1].Name)
	assert.Equal(t, TypeString, cols[1].Type)
	assert.Equal(t, "VARCHAR(256)", cols[1].SQLType)
	require.NotNil(t, cols[1].Limit)
	assert.Equal(t, 256, *cols[1].Limit)
	assert.True(t, cols[1].Null)
	assert.Nil(t, cols[1].Default)

	assert.Equal(t, TypeDecimal, cols[2].Type)
	assert.Equal(t, "DECIMAL(10,2)", cols[2].SQLType)
	require.NotNil(t, cols[2].Precision)
	require.NotNil(t, cols[2].Scale)
	assert.Equal(t, 10, *cols[2].Precision)
	assert.Equal(t, 2, *cols[2].Scale)

	require.NotNil(t, cols[3].Default)
	assert.Equal(t, "new", *cols[3].Default)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestColumns_MixedCaseTableKeepsCase(t *testing.T) {
	a, mock := newMockAdapter(t, Config{Schema: "APP"})
	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLCOLUMNS")).
		WithArgs("APP", "LineItems", jdbcOptions).
		WillReturnRows(sqlmock.NewRows(columnLabels))

	cols, err := a.Columns(context.Background(), "LineItems")
	require.NoError(t, err)
	assert.Empty(t, cols)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPrimaryKeys(t *testing.T) {
	a, mock := newMockAdapter(t, Config{Schema: "APP"})
	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLPRIMARYKEYS")).
		WithArgs("APP", "MEMBERSHIPS", jdbcOptions).
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "KEY_SEQ"}).
			AddRow("GROUP_ID", "2").
			AddRow("USER_ID", "1"))

	keys, err := a.PrimaryKeys(context.Background(), "memberships")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER_ID", "GROUP_ID"}, keys)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoIncrementClause(t *testing.T) {
	ctx := context.Background()

	t.Run("by default", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		mock.ExpectQuery(regexp.QuoteMeta("FROM SYS.SYSCOLUMNS")).
			WithArgs("USERS", "ID").
			WillReturnRows(sqlmock.NewRows(identityLabels).AddRow("1", "1", "ID", "r1", "GENERATED_BY_DEFAULT"))

		clause, err := a.autoIncrementClause(ctx, "USERS", `"ID"`)
		require.NoError(t, err)
		assert.Equal(t, " GENERATED BY DEFAULT AS IDENTITY (START WITH 1, INCREMENT BY 1)", clause)
	})

	t.Run("always", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		mock.ExpectQuery(regexp.QuoteMeta("FROM SYS.SYSCOLUMNS")).
			WithArgs("EVENTS", "SEQ").
			WillReturnRows(sqlmock.NewRows(identityLabels).AddRow("100", "5", "SEQ", "r2", nil))

		clause, err := a.autoIncrementClause(ctx, "EVENTS", `"SEQ"`)
		require.NoError(t, err)
		assert.Equal(t, " GENERATED ALWAYS AS IDENTITY (START WITH 100, INCREMENT BY 5)", clause)
	})

	t.Run("scoped to the adapter schema", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{Schema: "SALES"})
		mock.ExpectQuery(regexp.QuoteMeta("WHERE T.TABLENAME = ? AND C.COLUMNNAME = ? AND S.SCHEMANAME = ?")).
			WithArgs("USERS", "ID", "SALES").
			WillReturnRows(sqlmock.NewRows(identityLabels).AddRow("1", "1", "ID", "r1", "GENERATED_BY_DEFAULT"))

		clause, err := a.autoIncrementClause(ctx, "USERS", `"ID"`)
		require.NoError(t, err)
		assert.Equal(t, " GENERATED BY DEFAULT AS IDENTITY (START WITH 1, INCREMENT BY 1)", clause)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same table in several schemas", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		mock.ExpectQuery(`C\.COLUMNNAME = \?$`).
			WithArgs("USERS", "ID").
			WillReturnRows(sqlmock.NewRows(identityLabels).
				AddRow("1", "1", "ID", "r1", "GENERATED_BY_DEFAULT").
				AddRow("50", "10", "ID", "r9", nil))

		clause, err := a.autoIncrementClause(ctx, "USERS", `"ID"`)
		require.NoError(t, err)
		assert.Equal(t, " GENERATED BY DEFAULT AS IDENTITY (START WITH 1, INCREMENT BY 1)", clause)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not an identity", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		mock.ExpectQuery(regexp.QuoteMeta("FROM SYS.SYSCOLUMNS")).
			WillReturnRows(sqlmock.NewRows(identityLabels).AddRow(nil, nil, "NAME", "r3", nil))

		clause, err := a.autoIncrementClause(ctx, "USERS", `"NAME"`)
		require.NoError(t, err)
		assert.Empty(t, clause)
	})
}

func TestStructureDump(t *testing.T) {
	a, mock := newMockAdapter(t, Config{Schema: "APP"})
	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLTABLES")).
		WithArgs("APP", jdbcOptions).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEM", "TABLE_NAME"}).AddRow("APP", "USERS"))
	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLCOLUMNS")).
		WithArgs("APP", "USERS", jdbcOptions).
		WillReturnRows(sqlmock.NewRows(columnLabels).
			AddRow("USERS", "ID", "INTEGER", "10", "0", "GENERATED_BY_DEFAULT", "NO", "1").
			AddRow("USERS", "NAME", "VARCHAR", "256", nil, nil, "YES", "2").
			AddRow("USERS", "ACTIVE", "SMALLINT", "5", "0", "1", "NO", "3"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM SYS.SYSCOLUMNS")).
		WithArgs("USERS", "ID", "APP").
		WillReturnRows(sqlmock.NewRows(identityLabels).AddRow("1", "1", "ID", "r1", "GENERATED_BY_DEFAULT"))

	dump, err := a.StructureDump(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE USERS (\n"+
		` "ID" INTEGER NOT NULL GENERATED BY DEFAULT AS IDENTITY (START WITH 1, INCREMENT BY 1),`+"\n"+
		` "NAME" VARCHAR(256),`+"\n"+
		` "ACTIVE" SMALLINT NOT NULL DEFAULT 1);`+"\n\n", dump)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStructureDump_EmptySchema(t *testing.T) {
	a, mock := newMockAdapter(t, Config{Schema: "APP"})
	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLTABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}))

	dump, err := a.StructureDump(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dump)
}
