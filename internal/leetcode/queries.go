package leetcode

// GraphQL documents for the operations the service consumes. Response
// structs mirror only the fields we read.

const recentAcceptedSubmissionsQuery = `
query recentAcSubmissionList($username: String!, $limit: Int!) {
  recentAcSubmissionList(username: $username, limit: $limit) {
    id
    title
    titleSlug
    timestamp
    statusDisplay
    lang
  }
}`

const problemDetailsQuery = `
query questionDetails($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionFrontendId
    title
    difficulty
    acRate
    likes
    dislikes
    isPaidOnly
    topicTags {
      name
    }
  }
}`

const userCalendarQuery = `
query userProfileCalendar($username: String!, $year: Int) {
  matchedUser(username: $username) {
    userCalendar(year: $year) {
      activeYears
      streak
      totalActiveDays
      submissionCalendar
    }
  }
}`

const userSubmissionsQuery = `
query submissionList($username: String!, $offset: Int!, $limit: Int!) {
  questionSubmissionList(username: $username, offset: $offset, limit: $limit) {
    submissions {
      id
      title
      titleSlug
      timestamp
      statusDisplay
      lang
    }
  }
}`

type RawSubmission struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	TitleSlug     string `json:"titleSlug"`
	Timestamp     string `json:"timestamp"` // epoch seconds, as a string
	StatusDisplay string `json:"statusDisplay"`
	Lang          string `json:"lang"`
}

type recentAcceptedSubmissionsResponse struct {
	RecentAcSubmissionList []RawSubmission `json:"recentAcSubmissionList"`
}

type TopicTag struct {
	Name string `json:"name"`
}

type QuestionDetails struct {
	QuestionFrontendID string     `json:"questionFrontendId"`
	Title              string     `json:"title"`
	Difficulty         string     `json:"difficulty"`
	AcRate             *float64   `json:"acRate"`
	Likes              int        `json:"likes"`
	Dislikes           int        `json:"dislikes"`
	IsPaidOnly         bool       `json:"isPaidOnly"`
	TopicTags          []TopicTag `json:"topicTags"`
}

type problemDetailsResponse struct {
	Question *QuestionDetails `json:"question"`
}

type UserCalendar struct {
	ActiveYears        []int  `json:"activeYears"`
	Streak             int    `json:"streak"`
	TotalActiveDays    int    `json:"totalActiveDays"`
	SubmissionCalendar string `json:"submissionCalendar"` // JSON map of epoch-day -> count
}

type userCalendarResponse struct {
	MatchedUser *struct {
		UserCalendar *UserCalendar `json:"userCalendar"`
	} `json:"matchedUser"`
}

type userSubmissionsResponse struct {
	QuestionSubmissionList *struct {
		Submissions []RawSubmission `json:"submissions"`
	} `json:"questionSubmissionList"`
}
