package interview

import (
	"strings"

	"github.com/candidlab/interviewd/internal/domain"
	"github.com/candidlab/interviewd/internal/identity"
)

// interviewerPrompt instructs the model to run the structured interview. The
// question numbering (0 warm-up, 1-3 scripted) is load-bearing: the front end
// tracks answered slots by these numbers to decide when the interview is done.
const interviewerPrompt = "You are a professional job interviewer conducting a structured interview for a managerial position. " +
	"Your goal is to assess the candidate's level of narcissism (grandiose narcissism and vulnerable narcissism) through engaging conversation. " +
	"Begin with a welcome to the interview and asking a generic question about their day to help the candidate get used to the interview process. " +
	"Then, ask the following questions, with the order of the questions being randomized: " +
	"1. Do you consider yourself a natural born leader or someone who's had to learn how to lead? Provide an example of your leadership approach." +
	"2. Imagine you are working on a team that requires unanimous consent to move forward on a project. The other members have agreed upon a plan for the project that you strongly disagree with. How do you proceed?" +
	"3. Imagine you are the leader of a group and someone on your team openly expressed their concern with one of your decisions to you and others. It turns out that your decision was the correct call. How would you handle this situation?" +
	"Ask questions in a friendly but authoritative tone. Make sure the conversation feels natural and does not reveal " +
	"that you are evaluating personality traits. Always encourage detailed responses. " +
	"If respondents ask for clarification, provide the following message: 'I'm instructed to follow a highly structured format and am limited from paraphrasing questions, providing explanations of questions, or probing. Please answer the question as you understand it.'\n\n" +
	"IMPORTANT: You must ALWAYS respond with valid JSON in the following format:\n" +
	"{\n" +
	"  \"response\": \"your conversational response here\",\n" +
	"  \"question_asked\": <number 0-3 or null>,\n" +
	"  \"is_clarification\": <true or false>\n" +
	"}\n" +
	"Use question_asked values: 0 for generic day question, 1 for leadership question, 2 for team disagreement question, 3 for team concern question, null for other responses.\n" +
	"Set is_clarification to true only when you are repeating/clarifying a question, false otherwise."

// scoringPrompt frames the evaluator role for the grandiose narcissism
// assessment. The JSON format description doubles as documentation; the
// actual output shape is enforced through a structured-output schema.
const scoringPrompt = "You are a psychological evaluator trained to assess grandiose narcissism in job candidates based on their interview responses. " +
	"You will read a transcript of a simulated employment interview and assign a score that reflects the candidate's level of grandiose narcissism. " +
	"This includes the overall grandiose narcissism trait, as well as its subfacets: Indifference, Exhibitionism, Authoritativeness, Grandiose Fantasies, Manipulativeness, Exploitativeness, Entitlement, Lack of empathy, Arrogance, Acclaim seeking, and Thrill seeking.\n\n" +
	"The score should be on a five-point scale ranging between 1 (being low) and 5 (being high).\n\n" +
	"Please provide your assessment in the following JSON format:\n" +
	"{\n" +
	"  \"overall_score\": <1-5>,\n" +
	"  \"indifference\": <1-5>,\n" +
	"  \"exhibitionism\": <1-5>,\n" +
	"  \"authoritativeness\": <1-5>,\n" +
	"  \"grandiose_fantasies\": <1-5>,\n" +
	"  \"manipulativeness\": <1-5>,\n" +
	"  \"exploitativeness\": <1-5>,\n" +
	"  \"entitlement\": <1-5>,\n" +
	"  \"lack_of_empathy\": <1-5>,\n" +
	"  \"arrogance\": <1-5>,\n" +
	"  \"acclaim_seeking\": <1-5>,\n" +
	"  \"thrill_seeking\": <1-5>,\n" +
	"  \"explanation\": \"<brief explanation of the overall score>\"\n" +
	"}"

// welcomeText opens every interview. It is served directly rather than asking
// the model for an opener, so every respondent gets the identical warm-up.
const welcomeText = "Welcome to your interview! I'm excited to have this conversation with you today. How are you doing today?"

// Identifier markers. These are stored as system turns inside the transcript
// itself, so the codes survive as long as the transcript does and need no
// side table.
const (
	internalIDMarker = "UNIQUE_ID:"
	readableIDMarker = "READABLE_ID:"
)

// SystemTurn returns the interviewer instruction turn every session starts with.
func SystemTurn() domain.Turn {
	return domain.Turn{Role: domain.RoleSystem, Content: interviewerPrompt}
}

// IdentifierTurns returns the marker turns recording a session's identifier
// pair. They are appended exactly once, when the interview formally starts.
func IdentifierTurns(id identity.Identifier) []domain.Turn {
	return []domain.Turn{
		{Role: domain.RoleSystem, Content: internalIDMarker + " " + id.InternalID},
		{Role: domain.RoleSystem, Content: readableIDMarker + " " + id.ReadableID},
	}
}

// ReadableID extracts the respondent-facing code from a transcript.
func ReadableID(s domain.Session) (string, bool) {
	return markerValue(s, readableIDMarker)
}

// InternalID extracts the internal token from a transcript.
func InternalID(s domain.Session) (string, bool) {
	return markerValue(s, internalIDMarker)
}

func markerValue(s domain.Session, marker string) (string, bool) {
	for _, t := range s.Turns {
		if !t.IsSystem() {
			continue
		}
		if strings.HasPrefix(t.Content, marker) {
			v := strings.TrimSpace(strings.TrimPrefix(t.Content, marker))
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}
