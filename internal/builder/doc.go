/*
Package builder is responsible for the construction of the execution graph.
It acts as the bridge between a target (an ordered list of task names) and the
dynamic execution engine (the 'dag' package).

The primary artifact produced by this package is a validated, ready-to-run *Plan.

The graph construction is a multi-phase process:

 1. Node Creation: every task named by the target is resolved through the
    registry and added to the graph in declaration order. Declaration order is
    what the executor falls back on when several tasks are ready at once.

 2. Dependency Linking: two kinds of edges are created.
    a. Barrier edges: a barrier task (such as `clean`) depends on every task
    declared before it and every task declared after it depends on it.
    b. Overlap edges: two ordinary tasks whose planned outputs collide (the
    same path, or one inside a directory owned by the other) are ordered by
    declaration so they never write the same file concurrently.

 3. Validation: the DAG's cycle detection runs once before the plan is
    handed to the executor.

Tasks that share no barrier and write disjoint outputs are left unlinked and
run concurrently.
*/
package builder
