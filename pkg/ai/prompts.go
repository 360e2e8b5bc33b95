package ai

const ExtractPrompt = `
# Task Context
You are a helpful assistant specialized in building knowledge graphs from text. You will be provided with one segment of a larger document and the question the user wants answered.

# Background Data
User question: "%s"

# Detailed Task Description & Rules
- Identify the entities in the text segment that are relevant to the user question.
- Allowed entity types: %s.
- Entity names must be at most 3 words. Entity descriptions must be a single sentence.
- Identify directed relationships between the entities you found.
- Relationship labels must be at most 3 words (e.g. "causes", "part of", "invented by").
- Relationships must reference entities by their exact name as listed in your entities output.
- Assign each entity a short temporary id (e.g. "e1", "e2"); ids only need to be unique within this response.
- Prefer fewer, well-grounded entities over exhaustive lists. Skip boilerplate and meta-commentary.

# Output Formatting
Return a JSON object with this structure:
{
  "entities": [
    {"id": "e1", "name": "<short name>", "description": "<one sentence>", "type": "<entity type>"}
  ],
  "relationships": [
    {"sourceName": "<entity name>", "targetName": "<entity name>", "label": "<short label>"}
  ]
}
`

const MergePrompt = `
# Task Context
You are a helpful assistant that maintains a growing knowledge graph. You will be provided with the current master graph and a new fragment extracted from the next segment of the same document.

# Background Data
Current master graph:
%s

New fragment (temporary ids, relationships reference entities by name):
%s

# Detailed Task Description & Rules
- For each fragment entity, decide whether it is the SAME real-world concept as an existing master entity. Match semantically, not by string equality ("US" and "United States" are the same concept; "Apple" the company and "apple" the fruit are not).
- When a fragment entity matches an existing one, KEEP the existing id and write a new one-sentence description merging both descriptions.
- When a fragment entity is new, assign the next free sequential id following the master_entity_N scheme.
- Integrate the fragment's relationships, resolving names to ids. Skip a relationship if the master graph already has one with the same endpoints and an equivalent label meaning.
- Never drop or renumber existing master entities. Every entity id in your output must follow the master_entity_N scheme.

# Output Formatting
Return the COMPLETE updated master graph as a JSON object:
{
  "entities": [
    {"id": "master_entity_0", "name": "<short name>", "description": "<one sentence>", "type": "<entity type>"}
  ],
  "relationships": [
    {"sourceId": "master_entity_0", "targetId": "master_entity_1", "label": "<short label>"}
  ]
}
`

const CentralTopicPrompt = `
# Task Context
You are a helpful assistant that picks the central topic of a knowledge graph.

# Background Data
User question: "%s"
Entities: [%s]

# Detailed Task Description & Rules
- Choose the single entity that best serves as the root of a mind map answering the user question.
- Prefer the entity most other entities relate to.
- Answer with the entity name EXACTLY as it appears in the list, and nothing else. No punctuation, no explanation.
`

const ExpandPrompt = `
# Task Context
You are a helpful assistant that grows one node of an existing mind map.

# Background Data
Node to expand: "%s"
Surrounding context: "%s"

# Detailed Task Description & Rules
- Propose between 2 and 4 child concepts that elaborate on the node.
- Each concept needs a name of at most 3 words, a relationship phrase of at most 3 words describing how the parent relates to it, and at most one sentence of description.
- Concepts must be distinct from each other and from the node itself.

# Output Formatting
Return a JSON object with this structure:
{
  "concepts": [
    {"name": "<short name>", "relationship": "<short phrase>", "description": "<one sentence>"}
  ]
}
`
