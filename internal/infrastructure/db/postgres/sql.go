package postgres

const listEventsSQL = `
SELECT doc FROM events ORDER BY event_date ASC, created_at ASC
`

const getEventSQL = `
SELECT doc FROM events WHERE id = $1
`

const lockEventSQL = `
SELECT doc FROM events WHERE id = $1 FOR UPDATE
`

const insertEventSQL = `
INSERT INTO events (id, event_date, is_archived, doc, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
`

const updateEventSQL = `
UPDATE events SET
  event_date=$2, is_archived=$3, doc=$4, updated_at=$5
WHERE id=$1
`

const deleteEventSQL = `
DELETE FROM events WHERE id = $1
`
