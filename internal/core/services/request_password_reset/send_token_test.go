package requestpasswordreset

import (
	"context"
	"fmt"
	c "passreset/internal/core/domain/common"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var errTest = fmt.Errorf("test error")

type stubRequestService struct {
	result Result
	err    error
}

func (s *stubRequestService) Run(ctx context.Context, input Input) (Result, error) {
	return s.result, s.err
}

type testTokenSendingSuite struct {
	suite.Suite
	Logger  *logging.FakeLogger
	Sender  *verification.FakeTokenSender
	Inner   *stubRequestService
	Service *serviceWithTokenSending
}

func (suite *testTokenSendingSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Sender = verification.NewFakeTokenSender()
	suite.Inner = &stubRequestService{
		result: Result{
			Email:     EMAIL,
			Token:     c.NewOptional(verification.Token("T1"), true),
			ExpiresAt: NOW.Add(time.Hour),
		},
	}
	suite.Service = WithTokenSending(suite.Logger, suite.Sender, suite.Inner).(*serviceWithTokenSending)
}

func TestSendTokenService(t *testing.T) {
	suite.Run(t, new(testTokenSendingSuite))
}

func (suite *testTokenSendingSuite) TestTokenSent() {
	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})
	suite.Service.wait()

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.Inner.result, result)
	assert.Equal(
		[]verification.SentToken{{Email: EMAIL, Token: "T1", ExpiresAt: NOW.Add(time.Hour)}},
		suite.Sender.Sent,
	)
	assert.Equal(1, suite.Logger.CountByLevel(logging.INFO))
}

func (suite *testTokenSendingSuite) TestNothingSentWithoutToken() {
	suite.Inner.result = Result{Email: UNKNOWN_EMAIL}
	result, err := suite.Service.Run(context.Background(), Input{Email: UNKNOWN_EMAIL})
	suite.Service.wait()

	assert := suite.Require()
	assert.Nil(err)
	assert.False(result.Token.IsPresent)
	assert.Equal(0, suite.Sender.SentCount())
}

func (suite *testTokenSendingSuite) TestInnerError() {
	suite.Inner.err = errTest
	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})
	suite.Service.wait()

	assert := suite.Require()
	assert.ErrorIs(err, errTest)
	assert.Equal(0, suite.Sender.SentCount())
}

func (suite *testTokenSendingSuite) TestSenderErrorDoesNotFailRequest() {
	suite.Sender.ReturnError = true
	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})
	suite.Service.wait()

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.Inner.result, result)
	assert.Equal(1, suite.Logger.CountByLevel(logging.ERROR))
}

func (suite *testTokenSendingSuite) TestSlowSenderDoesNotDelayResponse() {
	delay := 300 * time.Millisecond
	suite.Sender.Delay = delay

	elapsed := func(email c.Email) time.Duration {
		started := time.Now()
		_, err := suite.Service.Run(context.Background(), Input{Email: email})
		suite.Require().Nil(err)
		return time.Since(started)
	}

	known := elapsed(EMAIL)
	suite.Inner.result = Result{Email: UNKNOWN_EMAIL}
	unknown := elapsed(UNKNOWN_EMAIL)

	assert := suite.Require()
	assert.Less(known, delay/3)
	assert.Less(unknown, delay/3)

	suite.Service.wait()
	assert.Equal(1, suite.Sender.SentCount())
}

func (suite *testTokenSendingSuite) TestSendingOutlivesRequestContext() {
	suite.Sender.Delay = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	_, err := suite.Service.Run(ctx, Input{Email: EMAIL})
	cancel()
	suite.Service.wait()

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(1, suite.Sender.SentCount())
}

func (suite *testTokenSendingSuite) TestSendingTimesOut() {
	suite.Sender.Delay = time.Second
	suite.Service.timeout = 10 * time.Millisecond

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})
	suite.Service.wait()

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(0, suite.Sender.SentCount())
	assert.Equal(1, suite.Logger.CountByLevel(logging.ERROR))
}
