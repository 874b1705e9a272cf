package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.String())

	ts, err := ParseDate("2024-03-01T17:00:00.000Z")
	require.NoError(t, err)
	assert.True(t, d.Equal(ts))

	for _, bad := range []string{"", "03/01/2024", "2024-13-01", "2024-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOf_UsesLocalCalendar(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 20:00 UTC on the 1st is already the 2nd in UTC+7.
	instant := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01", DateOf(instant).String())
	assert.Equal(t, "2024-03-02", DateOf(instant.In(jakarta)).String())
}

func TestDateArithmetic(t *testing.T) {
	d := MustParseDate("2024-02-28")

	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-27", d.AddDays(-1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, 0, d.Compare(MustParseDate("2024-02-28")))
	assert.True(t, d.Between(d, d))
	assert.False(t, d.Between(d.AddDays(1), d.AddDays(5)))

	assert.Equal(t, 1, DaysInclusive(d, d))
	assert.Equal(t, 3, DaysInclusive(d, d.AddDays(2)))
	assert.Equal(t, 0, DaysInclusive(d.AddDays(2), d))
}

func TestDateJSONAndSQL(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}

	data, err := json.Marshal(wrapper{D: MustParseDate("2024-01-05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-01-05"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-01-05T00:00:00.000Z"}`), &w))
	assert.Equal(t, "2024-01-05", w.D.String())

	require.NoError(t, json.Unmarshal([]byte(`{"d":""}`), &w))
	assert.True(t, w.D.IsZero())

	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var scanned Date
	require.NoError(t, scanned.Scan([]byte("2024-06-30")))
	assert.Equal(t, "2024-06-30", scanned.String())
	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
}

func TestBudgetStateTransitions(t *testing.T) {
	start, end := MustParseDate("2024-03-01"), MustParseDate("2024-03-10")
	limit := NewBudgetLimit("user-1", decimal.NewFromInt(1000), start, end)
	assert.True(t, decimal.NewFromInt(100).Equal(limit.DailyLimit))

	state := UnsetBudget()
	assert.Equal(t, BudgetUnset, state.Status())
	_, ok := state.Limit()
	assert.False(t, ok)

	_, err := state.Reset()
	assert.ErrorIs(t, err, ErrBudgetNotActive)

	limit.ID = "budget-1"
	state = state.Activate(limit)
	assert.True(t, state.IsActive())

	replacement := NewBudgetLimit("user-1", decimal.NewFromInt(500), start, start)
	state = state.Activate(replacement)
	got, ok := state.Limit()
	require.True(t, ok)
	assert.Equal(t, "budget-1", got.ID, "replacing keeps the record id")
	assert.True(t, decimal.NewFromInt(500).Equal(got.TotalBudget))

	state, err = state.Reset()
	require.NoError(t, err)
	assert.Equal(t, BudgetInactive, state.Status())
	_, ok = state.Limit()
	assert.True(t, ok, "reset keeps the record")

	_, err = state.Reset()
	assert.ErrorIs(t, err, ErrBudgetNotActive)

	state = state.Activate(NewBudgetLimit("user-1", decimal.NewFromInt(10), start, end))
	assert.Equal(t, BudgetActive, state.Status())
}

func TestNewBudgetLimit_EmptyPeriod(t *testing.T) {
	limit := NewBudgetLimit("u", decimal.NewFromInt(10), MustParseDate("2024-03-02"), MustParseDate("2024-03-01"))
	assert.True(t, limit.DailyLimit.IsZero())
}

func TestSavingsGoalName(t *testing.T) {
	tests := []struct {
		category, description string
		want                  string
		ok                    bool
	}{
		{SavingsCategory, ContributionDescription("Laptop"), "Laptop", true},
		{SavingsCategory, InitialDepositDescription("Trip to Bali"), "Trip to Bali", true},
		{SavingsCategory, "Saved for ", "", false},
		{SavingsCategory, "Groceries", "", false},
		{"Food", ContributionDescription("Laptop"), "", false},
	}

	for _, tt := range tests {
		txn := Transaction{Category: tt.category, Description: tt.description}
		got, ok := txn.SavingsGoalName()
		assert.Equal(t, tt.ok, ok, tt.description)
		assert.Equal(t, tt.want, got, tt.description)
	}
}

func TestSavingsGoalContributeWithdraw(t *testing.T) {
	goal := SavingsGoal{TargetAmount: decimal.NewFromInt(100)}

	goal.Contribute(decimal.NewFromInt(60))
	assert.False(t, goal.IsCompleted)
	goal.Contribute(decimal.NewFromInt(40))
	assert.True(t, goal.IsCompleted)

	goal.Withdraw(decimal.NewFromInt(30))
	assert.False(t, goal.IsCompleted)
	assert.True(t, decimal.NewFromInt(70).Equal(goal.CurrentAmount))

	goal.Withdraw(decimal.NewFromInt(500))
	assert.True(t, goal.CurrentAmount.IsZero())
}

func TestBackupBudgetRoundTrip(t *testing.T) {
	assert.Nil(t, BackupBudgetFrom(UnsetBudget()))
	var none *BackupBudget
	assert.Equal(t, BudgetUnset, none.State().Status())

	limit := NewBudgetLimit("u", decimal.NewFromInt(10), MustParseDate("2024-03-01"), MustParseDate("2024-03-02"))
	inactive := InactiveBudget(limit)

	data, err := json.Marshal(BackupBudgetFrom(inactive))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isActive":false`)
	assert.Contains(t, string(data), `"startDate":"2024-03-01"`)

	var decoded BackupBudget
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, BudgetInactive, decoded.State().Status())
}

func TestUnixTimeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want UnixTime
	}{
		{"seconds", `1709294400`, 1709294400},
		{"rfc3339", `"2024-03-01T12:00:00Z"`, 1709294400},
		{"rfc3339 millis", `"2024-03-01T12:00:00.000Z"`, 1709294400},
		{"null", `null`, 0},
		{"empty", `""`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got UnixTime
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad UnixTime
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))

	out, err := json.Marshal(UnixTime(1709294400))
	require.NoError(t, err)
	assert.Equal(t, `1709294400`, string(out), "written as seconds")
}

func TestBackupWithISOTimestamps(t *testing.T) {
	doc := `{
		"version": 1,
		"timestamp": "2024-03-05T08:00:00.000Z",
		"user_id": "u1",
		"transactions": [{
			"id": "t1", "userId": "u1", "type": "expense", "amount": 150000,
			"category": "Food", "description": "", "date": "2024-03-01T00:00:00.000Z",
			"createdAt": "2024-03-01T12:00:00.000Z"
		}],
		"budgetLimit": {
			"id": "b1", "userId": "u1", "totalBudget": 300000, "dailyLimit": 100000,
			"startDate": "2024-03-01T00:00:00.000Z", "endDate": "2024-03-03T00:00:00.000Z",
			"isActive": true,
			"createdAt": "2024-03-01T12:00:00.000Z", "updatedAt": "2024-03-01T12:00:00.000Z"
		},
		"savingsGoals": [{
			"id": "g1", "userId": "u1", "name": "Bike", "targetAmount": 100, "currentAmount": 10,
			"deadline": null, "isCompleted": false,
			"createdAt": "2024-03-01T12:00:00.000Z", "updatedAt": "2024-03-02T12:00:00.000Z"
		}]
	}`

	var backup Backup
	require.NoError(t, json.Unmarshal([]byte(doc), &backup))

	require.Len(t, backup.Transactions, 1)
	assert.Equal(t, UnixTime(1709294400), backup.Transactions[0].CreatedAt)
	require.NotNil(t, backup.BudgetLimit)
	assert.Equal(t, UnixTime(1709294400), backup.BudgetLimit.CreatedAt)
	require.Len(t, backup.SavingsGoals, 1)
	assert.Equal(t, UnixTime(1709380800), backup.SavingsGoals[0].UpdatedAt)
	assert.True(t, backup.SavingsGoals[0].Deadline.IsZero())
}
