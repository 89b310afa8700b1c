package auth

import (
	"crypto/subtle"
	"net/http"

	"newsboard/internal/logger"
)

// HeaderName — заголовок, в котором передаётся пароль администратора при записи.
const HeaderName = "admin-password"

// Kind различает источник пароля: тело запроса логина или заголовок.
type Kind string

const (
	KindLogin  Kind = "login"
	KindHeader Kind = "header"
)

// Gate сравнивает присланный пароль с общим паролем администратора.
// Состояния нет: сессий и токенов не выдаётся, каждый запрос на запись
// должен заново передать пароль.
type Gate struct {
	secret         string
	logCredentials bool
}

// NewGate создаёт Gate с паролем secret. При logCredentials=true в лог пишутся
// присланное и ожидаемое значения пароля.
func NewGate(secret string, logCredentials bool) *Gate {
	return &Gate{secret: secret, logCredentials: logCredentials}
}

// CheckLogin проверяет пароль из тела POST /api/login.
func (g *Gate) CheckLogin(password string) bool {
	return g.check(KindLogin, password)
}

// CheckHeader проверяет пароль из заголовка admin-password.
func (g *Gate) CheckHeader(r *http.Request) bool {
	return g.check(KindHeader, r.Header.Get(HeaderName))
}

func (g *Gate) check(kind Kind, submitted string) bool {
	ok := g.secret != "" &&
		subtle.ConstantTimeCompare([]byte(submitted), []byte(g.secret)) == 1

	log := logger.Log.WithFields(logger.Fields{
		"kind":       string(kind),
		"authorized": ok,
	})
	if g.logCredentials {
		log = log.WithFields(logger.Fields{
			"input":    submitted,
			"expected": g.secret,
		})
	}
	log.Info("Admin password check")
	return ok
}
