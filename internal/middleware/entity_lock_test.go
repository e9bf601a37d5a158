package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"websecurity/internal/testutil"
	"websecurity/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeLocker struct {
	acquireErr error
	acquired   []string
	released   []string
}

func (l *fakeLocker) Acquire(ctx context.Context, key string) error {
	l.acquired = append(l.acquired, key)
	return l.acquireErr
}

func (l *fakeLocker) Release(ctx context.Context, key string) {
	l.released = append(l.released, key)
}

func lockedEngine(locker Locker, logger logrus.FieldLogger, reached *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/offers/:id", EntityLock(locker, "offer", logger), func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	})
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestEntityLockAcquiresAndReleases(t *testing.T) {
	logger, _ := testutil.NewLogger()
	locker := &fakeLocker{}
	var reached bool

	w := serve(lockedEngine(locker, logger, &reached), http.MethodPut, "/offers/42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.Equal(t, []string{"offer:42"}, locker.acquired)
	assert.Equal(t, []string{"offer:42"}, locker.released)
}

func TestEntityLockBusy(t *testing.T) {
	logger, _ := testutil.NewLogger()
	locker := &fakeLocker{acquireErr: redis_limiter.ErrSlotBusy}
	var reached bool

	w := serve(lockedEngine(locker, logger, &reached), http.MethodPut, "/offers/42")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, reached)
	assert.Empty(t, locker.released)
}

func TestEntityLockRedisDown(t *testing.T) {
	logger, hook := testutil.NewLogger()
	locker := &fakeLocker{acquireErr: errors.New("dial tcp: connection refused")}
	var reached bool

	w := serve(lockedEngine(locker, logger, &reached), http.MethodPut, "/offers/42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.Empty(t, locker.released)
	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, "offer:42", hook.LastEntry().Data["key"])
	}
}

func TestEntityLockDisabled(t *testing.T) {
	logger, _ := testutil.NewLogger()
	var reached bool

	w := serve(lockedEngine(nil, logger, &reached), http.MethodPut, "/offers/42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}
