package jobs

type JobType string

const (
	JobSendWelcomeEmail    JobType = "send_welcome_email"
	JobSendAccountFarewell JobType = "send_account_farewell"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobSendWelcomeEmail, JobSendAccountFarewell:
		return true
	default:
		return false
	}
}
