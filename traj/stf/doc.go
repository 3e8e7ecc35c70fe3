/*
 * doc.go, part of trjstat.
 *
 * Copyright 2026 The trjstat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package stf reads and writes the simple trajectory format, a compressed text
//format that is easy to read and write from any language.

/******************** Format   ***************************************************

An STF file is a text file compressed with z-standard (zstd), unless the last
letter of the file name says otherwise: 'z' for gzip, 'r' for flate, 'l' for lzw.

The file starts with a header, ending with a line that starts with the
characters "**" followed by one or more spaces, and the number of atoms per frame.
Each line before that is a key=value pair. The key "prec" gives the precision
(see below). The key "names" gives the atom names, separated by spaces.

After the header, the file has one line per atom, per frame, with the x, y and z
coordinates in Angstrom multiplied by 10 to the power of the precision (2 by
default), and rounded to an integer.

Each frame ends with a line starting with the character "*", optionally followed
by 9 floating-point numbers: the a, b and c vectors of the unit cell, in Angstrom.

*****************************************************************************************/

package stf
