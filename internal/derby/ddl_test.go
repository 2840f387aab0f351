package derby

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectExec(mock sqlmock.Sqlmock, stmt string) {
	mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestAddColumn(t *testing.T) {
	t.Run("nullable", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		expectExec(mock, "ALTER TABLE users ADD nickname varchar(30)")

		err := a.AddColumn(context.Background(), "users", "nickname", TypeString, ColumnOptions{Limit: Int(30)})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not null is a second statement", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		expectExec(mock, "ALTER TABLE users ADD \"KEY\" integer DEFAULT 0")
		expectExec(mock, "ALTER TABLE users ALTER \"KEY\" NOT NULL")

		err := a.AddColumn(context.Background(), "users", "key", TypeInteger,
			ColumnOptions{Null: Bool(false)}.WithDefault(0))
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad decimal issues nothing", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})

		err := a.AddColumn(context.Background(), "users", "score", TypeDecimal, ColumnOptions{Scale: Int(2)})
		require.ErrorIs(t, err, ErrDecimalPrecision)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChangeColumn(t *testing.T) {
	ctx := context.Background()

	t.Run("nullability and type", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		expectExec(mock, "ALTER TABLE users ALTER COLUMN bio NOT NULL")
		expectExec(mock, "ALTER TABLE users ALTER COLUMN bio SET DATA TYPE clob")

		require.NoError(t, a.ChangeColumn(ctx, "users", "bio", TypeText, ColumnOptions{Null: Bool(false)}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nullability recorded with type in dry run", func(t *testing.T) {
		script := &Script{}
		a := New(script, Config{})

		require.NoError(t, a.ChangeColumn(ctx, "users", "age", TypeInteger, ColumnOptions{Null: Bool(false)}))
		assert.Equal(t, []string{
			"ALTER TABLE users ALTER COLUMN age NOT NULL",
			"ALTER TABLE users ALTER COLUMN age SET DATA TYPE integer",
		}, script.Statements())
	})

	t.Run("default follows direct type change", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		expectExec(mock, "ALTER TABLE users ALTER COLUMN status SET DATA TYPE varchar(20)")
		expectExec(mock, "ALTER TABLE users ALTER COLUMN status DEFAULT 'new'")

		require.NoError(t, a.ChangeColumn(ctx, "users", "status", TypeString,
			ColumnOptions{Limit: Int(20)}.WithDefault("new")))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil default is dropped", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		expectExec(mock, "ALTER TABLE users ALTER COLUMN score SET DATA TYPE integer")
		expectExec(mock, "ALTER TABLE users ALTER COLUMN score DROP DEFAULT")

		require.NoError(t, a.ChangeColumn(ctx, "users", "score", TypeInteger, ColumnOptions{}.WithDefault(nil)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nullability then type", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		expectExec(mock, "ALTER TABLE users ALTER COLUMN name NULL")
		expectExec(mock, "ALTER TABLE users ALTER COLUMN name SET DATA TYPE varchar(100)")

		require.NoError(t, a.ChangeColumn(ctx, "users", "name", TypeString,
			ColumnOptions{Null: Bool(true), Limit: Int(100)}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("direct type change", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		expectExec(mock, "ALTER TABLE users ALTER COLUMN price SET DATA TYPE decimal(10,2)")

		require.NoError(t, a.ChangeColumn(ctx, "users", "price", TypeDecimal,
			ColumnOptions{Precision: Int(10), Scale: Int(2)}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("copy migration commits", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE users ALTER COLUMN age SET DATA TYPE varchar(40)")).
			WillReturnError(errors.New("invalid type change"))
		mock.ExpectBegin()
		expectExec(mock, "ALTER TABLE users ADD age_newtype varchar(40)")
		expectExec(mock, "UPDATE users SET age_newtype = CAST(age AS varchar(40))")
		expectExec(mock, "ALTER TABLE users DROP COLUMN age RESTRICT")
		expectExec(mock, "RENAME COLUMN users.age_newtype TO age")
		mock.ExpectCommit()

		require.NoError(t, a.ChangeColumn(ctx, "users", "age", TypeString, ColumnOptions{Limit: Int(40)}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("copy migration rolls back", func(t *testing.T) {
		a, mock := newMockAdapter(t, Config{})
		dependent := errors.New("column is referenced by a view")
		mock.ExpectExec(regexp.QuoteMeta("SET DATA TYPE")).WillReturnError(errors.New("invalid type change"))
		mock.ExpectBegin()
		expectExec(mock, "ALTER TABLE users ADD age_newtype varchar(40)")
		expectExec(mock, "UPDATE users SET age_newtype = CAST(age AS varchar(40))")
		mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE users DROP COLUMN age RESTRICT")).WillReturnError(dependent)
		mock.ExpectRollback()

		err := a.ChangeColumn(ctx, "users", "age", TypeString, ColumnOptions{Limit: Int(40)})
		require.ErrorIs(t, err, dependent)
		assert.Contains(t, err.Error(), "change column users.age")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemoveAndRename(t *testing.T) {
	ctx := context.Background()
	a, mock := newMockAdapter(t, Config{})
	expectExec(mock, "ALTER TABLE users DROP COLUMN \"firstName\" RESTRICT")
	expectExec(mock, "RENAME COLUMN users.\"firstName\" TO first_name")
	expectExec(mock, "RENAME TABLE users TO people")
	expectExec(mock, "DROP TABLE people")

	require.NoError(t, a.RemoveColumn(ctx, "users", "firstName"))
	require.NoError(t, a.RenameColumn(ctx, "users", "firstName", "first_name"))
	require.NoError(t, a.RenameTable(ctx, "users", "people"))
	require.NoError(t, a.DropTable(ctx, "people"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveIndex(t *testing.T) {
	ctx := context.Background()
	a, mock := newMockAdapter(t, Config{})
	expectExec(mock, "DROP INDEX index_users_on_last_name_and_first_name")
	expectExec(mock, "DROP INDEX by_email")

	require.NoError(t, a.RemoveIndex(ctx, "users", IndexOptions{Columns: []string{"last_name", "first_name"}}))
	require.NoError(t, a.RemoveIndex(ctx, "users", IndexOptions{Name: "by_email", Columns: []string{"email"}}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTableSQL(t *testing.T) {
	a := New(&Script{}, Config{})

	t.Run("identity column", func(t *testing.T) {
		got, err := a.CreateTableSQL(TableDefinition{
			Name: "users",
			Columns: []ColumnDefinition{
				{Name: "id", Type: TypePrimaryKey, Options: ColumnOptions{Null: Bool(false)}},
				{Name: "email", Type: TypeString, Options: ColumnOptions{Null: Bool(false)}},
				{Name: "active", Type: TypeBoolean, Options: ColumnOptions{}.WithDefault(true)},
			},
			PrimaryKey: []string{"id"},
		})
		require.NoError(t, err)
		assert.Equal(t, "CREATE TABLE users (id int generated by default as identity NOT NULL PRIMARY KEY, "+
			"email varchar(256) NOT NULL, active smallint DEFAULT 1)", got)
	})

	t.Run("composite key", func(t *testing.T) {
		got, err := a.CreateTableSQL(TableDefinition{
			Name: "memberships",
			Columns: []ColumnDefinition{
				{Name: "user_id", Type: TypeInteger, Options: ColumnOptions{Null: Bool(false)}},
				{Name: "group", Type: TypeInteger, Options: ColumnOptions{Null: Bool(false)}},
			},
			PrimaryKey: []string{"user_id", "group"},
		})
		require.NoError(t, err)
		assert.Equal(t, "CREATE TABLE memberships (user_id integer NOT NULL, \"GROUP\" integer NOT NULL, "+
			"PRIMARY KEY (user_id, \"GROUP\"))", got)
	})

	t.Run("bad column", func(t *testing.T) {
		_, err := a.CreateTableSQL(TableDefinition{
			Name:    "t",
			Columns: []ColumnDefinition{{Name: "amount", Type: TypeDecimal, Options: ColumnOptions{Scale: Int(1)}}},
		})
		require.ErrorIs(t, err, ErrDecimalPrecision)
		assert.Contains(t, err.Error(), "amount")
	})
}

func TestRecreateDatabase(t *testing.T) {
	a, mock := newMockAdapter(t, Config{Schema: "APP"})
	locked := errors.New("table is locked")

	mock.ExpectQuery(regexp.QuoteMeta("CALL SYSIBM.SQLTABLES")).
		WithArgs("APP", jdbcOptions).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEM", "TABLE_NAME"}).
			AddRow("APP", "USERS").
			AddRow("APP", "POSTS"))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE POSTS")).WillReturnError(locked)
	expectExec(mock, "DROP TABLE USERS")

	err := a.RecreateDatabase(context.Background())
	require.ErrorIs(t, err, locked)
	require.NoError(t, mock.ExpectationsWereMet())
}
