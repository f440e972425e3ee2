package ai

import "fmt"

const courseSystemPrompt = `You are Course2Career, an expert curriculum designer and career advisor.
You design practical, job-oriented courses and realistic career paths.
Always answer with a single valid JSON object and nothing else: no markdown, no commentary.`

const chatSystemPrompt = `You are Course2Career, a friendly career and learning assistant.
Answer questions about courses, skills, and careers clearly and concisely.
Use plain text. Keep answers under 200 words unless the user asks for more detail.`

func coursePrompt(query string) string {
	return fmt.Sprintf(`Create a course outline for the topic: %q

Return a JSON object with exactly these fields:
- "title": string, the course title
- "description": string, two or three sentences describing the course
- "duration": string, total duration such as "8 weeks"
- "difficulty": string, one of "Beginner", "Intermediate", "Advanced"
- "startingSalary": string, typical entry salary for this skill set as an annual USD range such as "$55,000 - $70,000"
- "skills": array of %d to %d distinct strings, the skills a learner gains
- "modules": array of %d to %d objects, each with:
  - "title": string
  - "description": string

Example shape:
{"title":"...","description":"...","duration":"...","difficulty":"Beginner","startingSalary":"$X,XXX - $Y,YYY","skills":["..."],"modules":[{"title":"...","description":"..."}]}`,
		query, MinSkills, MaxSkills, MinModules, MaxModules)
}

func detailedCoursePrompt(query string) string {
	return fmt.Sprintf(`Create a detailed course for the topic: %q

Return a JSON object with exactly these fields:
- "title": string, the course title
- "description": string, two or three sentences describing the course
- "duration": string, total duration such as "8 weeks"
- "difficulty": string, one of "Beginner", "Intermediate", "Advanced"
- "startingSalary": string, typical entry salary as an annual USD range such as "$55,000 - $70,000"
- "skills": array of %d to %d distinct strings
- "modules": array of %d to %d objects, each with:
  - "title": string
  - "description": string
  - "chapters": array of %d to %d objects, each with:
    - "title": string
    - "pages": array of %d to %d objects, each with "title" (string) and "content" (string, at least one paragraph of teaching material)`,
		query, MinSkills, MaxSkills, MinModules, MaxModules, MinChapters, MaxChapters, MinPages, MaxPages)
}

func careerPathPrompt(query string) string {
	return fmt.Sprintf(`Create a career path for: %q

Return a JSON object with exactly these fields:
- "title": string, the career path title
- "description": string, two or three sentences describing the path
- "flowchart": object with:
  - "roles": array of %d to %d objects, each with:
    - "id": string, unique short identifier such as "r1"
    - "title": string, the job title
    - "salary": string, annual USD range formatted as "$X,XXX - $Y,YYY"
    - "stage": string, one of "Entry Level", "Mid Career", "Late Career"

Every stage must contain between %d and %d roles. List roles in career order, entry level first.`,
		query, MinRoles, MaxRoles, MinRolesPerStage, MaxRolesPerStage)
}
