package status

// Application codes carried in every JSON body as "code".
// 1xxx success, 4xxx client error, 5xxx server error.
const (
	StatusOK             int16 = 1000
	StatusLoginSuccess   int16 = 1010
	StatusSignupSuccess  int16 = 1011
	StatusTokenRefreshed int16 = 1012
	StatusLogoutSuccess  int16 = 1013
	StatusProfile        int16 = 1020

	StatusBadRequest         int16 = 4000
	StatusUnauthorized       int16 = 4001
	StatusValidationFailed   int16 = 4010
	StatusInvalidCredentials int16 = 4011
	StatusInvalidToken       int16 = 4012
	StatusUsernameTaken      int16 = 4021
	StatusCSRFTokenMismatch  int16 = 4040

	StatusInternalServerError int16 = 5000
	StatusServiceUnavailable  int16 = 5002
)
