package ai

type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

type Stage string

const (
	EntryLevel Stage = "Entry Level"
	MidCareer  Stage = "Mid Career"
	LateCareer Stage = "Late Career"
)

// Stages in career order.
var Stages = []Stage{EntryLevel, MidCareer, LateCareer}

// Cardinality bounds the prompts ask for and the gateway enforces.
const (
	MinModules        = 4
	MaxModules        = 6
	MinSkills         = 5
	MaxSkills         = 7
	MinChapters       = 2
	MaxChapters       = 4
	MinPages          = 1
	MaxPages          = 3
	MinRoles          = 8
	MaxRoles          = 12
	MinRolesPerStage  = 2
	MaxRolesPerStage  = 4
	MaxQueryLength    = 1000
	MaxHistoryEntries = 20
)

type Course struct {
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Duration       string     `json:"duration" validate:"required"`
	Difficulty     Difficulty `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	StartingSalary string     `json:"startingSalary" validate:"required"`
	Skills         []string   `json:"skills" validate:"min=5,max=7,unique,dive,required"`
	Modules        []Module   `json:"modules" validate:"min=4,max=6,dive"`
}

type Module struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Chapters    []Chapter `json:"chapters,omitempty" validate:"omitempty,dive"`
}

type Chapter struct {
	Title string `json:"title" validate:"required"`
	Pages []Page `json:"pages,omitempty" validate:"omitempty,dive"`
}

type Page struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CareerPath is roles-only: any "connections" a model adds are dropped.
type CareerPath struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Flowchart   Flowchart `json:"flowchart"`
}

type Flowchart struct {
	Roles []Role `json:"roles" validate:"min=8,max=12,unique=ID,dive"`
}

type Role struct {
	ID     string `json:"id" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Salary string `json:"salary" validate:"required"`
	Stage  Stage  `json:"stage" validate:"required,oneof='Entry Level' 'Mid Career' 'Late Career'"`
}

// Message is one turn of chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
