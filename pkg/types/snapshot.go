package types

// state:
//   armed: boolean
//   started_at: timestamp (absent until the first start)
//   winner: string (absent until the first accepted buzz of the round)
//   players: { [name]: { reaction_time?: number, locked: boolean, connected: boolean } }
//   leaderboard: [ { name: string, reaction_time: number } ] // ascending, one entry per name
