package planner

// fullPlanPrompt is the prompt template for one-shot plan generation.
// It takes the task description and the rendered capability list.
const fullPlanPrompt = `Break this task into a dependency-ordered plan of steps. Each step is executed by one of the available capabilities.

Task:
%s

Available capabilities:
%s

Return ONLY a JSON object with this exact structure (no other text):
{
  "steps": [
    {
      "id": "step1",
      "name": "Short step name",
      "description": "Detailed description of what this step should accomplish",
      "capability": "capability name from the list above",
      "dependencies": ["ids of steps that must complete first"]
    }
  ]
}

Guidelines:
- Every "capability" value MUST be one of the available capability names
- Every id in "dependencies" MUST be the id of another step in this plan
- Steps with no dependency relationship run concurrently; only add a dependency when a step truly needs another step's output
- Use empty array [] for dependencies if there are none
- Keep ids short and unique (step1, step2, ...)
- Dependencies must not form a cycle`

// nextStepPrompt is the prompt template for iterative planning.
// It takes the task description, the capability list, and a progress
// summary of all previously executed steps.
const nextStepPrompt = `You are planning one step at a time toward completing a task. Decide the single next step, or declare the task complete.

Task:
%s

Available capabilities:
%s

Progress so far:
%s

Return ONLY a JSON object with this exact structure (no other text):
{
  "description": "Why this step is the right next move",
  "tasks": [
    {
      "description": "What the step should accomplish",
      "capability": "capability name from the list above"
    }
  ],
  "is_complete": false
}

Guidelines:
- Propose exactly ONE task; only the first entry is executed
- Every "capability" value MUST be one of the available capability names
- Set "is_complete" to true (with an empty tasks array) once the progress above fully answers the task`
