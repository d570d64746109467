package journal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/mocks"
)

func TestMultiCallsEveryJournal(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	first := mocks.NewMockJournal(ctrl)
	second := mocks.NewMockJournal(ctrl)

	rec := journal.TradeRecord{TradeID: "T1", Symbol: "SOXL", Action: journal.Buy}
	errDisk := errors.New("disk full")

	first.EXPECT().RecordTrade(rec).Return(errDisk)
	second.EXPECT().RecordTrade(rec).Return(nil)
	first.EXPECT().Close().Return(nil)
	second.EXPECT().Close().Return(nil)

	m := journal.Multi{first, second}
	assert.ErrorIs(t, m.RecordTrade(rec), errDisk)
	assert.NoError(t, m.Close())
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var j journal.Journal = journal.Noop{}
	assert.NoError(t, j.RecordTrade(journal.TradeRecord{TradeID: "T1"}))
	assert.NoError(t, j.Close())
}
